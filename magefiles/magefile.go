//go:build mage

// Package main provides build targets for the hbnb project using Mage.
//
// Usage:
//
//	mage build      Compile the hbnb binary to bin/
//	mage test       Run all tests
//	mage testShort  Run tests without the property checks' long runs
//	mage cover      Run all tests with a coverage profile in bin/
//	mage lint       Run golangci-lint
//	mage clean      Remove build artifacts
//	mage install    Install hbnb to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "hbnb"
	binaryDir  = "bin"
	cmdDir     = "./cmd/hbnb"
	binLint    = "golangci-lint"
)

// Build compiles the hbnb binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs every test with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// TestShort runs the tests with fewer property-check iterations.
func TestShort() error {
	return sh.RunWithV(map[string]string{"RAPID_CHECKS": "20"}, "go", "test", "-short", "./...")
}

// Cover runs every test and writes bin/coverage.out.
func Cover() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	profile := filepath.Join(binaryDir, "coverage.out")
	if err := sh.RunV("go", "test", "-coverprofile", profile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func", profile)
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
