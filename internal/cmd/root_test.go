package cmd

import (
	"testing"

	"github.com/MrYazdan/schemarunner/internal/config"
)

func TestNewRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	if !names["migrate"] || !names["status"] {
		t.Fatalf("expected migrate and status subcommands, got %v", names)
	}
}

func TestOpenDriver_RejectsUnsupportedDriver(t *testing.T) {
	_, _, err := openDriver(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
	if err == nil {
		t.Fatal("expected an error for an unsupported driver")
	}
}
