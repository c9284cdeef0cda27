// Command hbnb is the console for the hbnb storage engine.
package main

import "github.com/mesh-intelligence/hbnb/internal/cli"

func main() {
	cli.Execute()
}
