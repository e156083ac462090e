// Package main provides the CLI entry point for schemarunner, the
// reference caller for internal/migrate: it wires configuration,
// logging, migration discovery and a driver adapter together, the
// concrete responsibilities deliberately left outside the execution
// core itself.
package main

import (
	"fmt"
	"os"

	"github.com/MrYazdan/schemarunner/internal/cmd"
)

func main() {
	root := cmd.NewRootCommand()

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
