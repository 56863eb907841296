package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func checkFlags(t *testing.T, cmd *cobra.Command, want map[string]string) {
	t.Helper()
	for name, flagType := range want {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			t.Errorf("%s: expected flag %q not found", cmd.Name(), name)
			continue
		}
		if f.Value.Type() != flagType {
			t.Errorf("%s: flag %q: expected type %q, got %q", cmd.Name(), name, flagType, f.Value.Type())
		}
	}
}

func TestListCommand_Flags(t *testing.T) {
	checkFlags(t, listCmd, map[string]string{
		"pid":        "int",
		"app":        "string",
		"all-layers": "bool",
		"pretty":     "bool",
	})
}

func TestCommandFlags(t *testing.T) {
	checkFlags(t, axWindowsCmd, map[string]string{"bundle-id": "string"})
	checkFlags(t, trustCmd, map[string]string{"prompt": "bool"})
	checkFlags(t, startCmd, map[string]string{"request-permission": "bool"})
	checkFlags(t, probeCmd, map[string]string{"activate": "bool", "shutdown": "bool"})
	checkFlags(t, sendCmd, map[string]string{"raw": "bool"})
	checkFlags(t, windowsCmd, map[string]string{"new-window-position": "string", "activation-mode": "string"})
	checkFlags(t, switchCmd, map[string]string{
		"direction":           "string",
		"dry-run":             "bool",
		"new-window-position": "string",
		"activation-mode":     "string",
	})
	checkFlags(t, layoutCmd, map[string]string{"out": "string", "all": "bool", "max-size": "int", "padding": "int"})
	checkFlags(t, serveCmd, map[string]string{"transport": "string", "port": "int", "cache-ttl": "int"})
}

func TestListCommand_IsRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Name() == "list" {
			return
		}
	}
	t.Error("list command not registered on root")
}
