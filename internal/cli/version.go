package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release of the hbnb console.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/hbnb"

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the hbnb version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipStorage: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hbnb v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
