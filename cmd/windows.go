package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/output"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List editor windows in most-recently-used order",
	Long: `Ask the helper for the editor's windows, most recently used first.

In automatic mode the focused window is moved to the front on every listing;
in manual mode the order only changes through activate and switch.`,
	Args: cobra.NoArgs,
	RunE: runWindows,
}

var activateCmd = &cobra.Command{
	Use:   "activate ID",
	Short: "Bring a window to the front by its window ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivate,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(activateCmd)
	addWindowsRequestFlags(windowsCmd)
	windowsCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

// addWindowsRequestFlags registers the getWindows settings on cmd.
func addWindowsRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("new-window-position", "", "Where new windows go: top, bottom (default from config)")
	cmd.Flags().String("activation-mode", "", "automatic or manual (default from config)")
}

// windowsRequest returns the configured getWindows settings with cmd's
// flag overrides applied.
func windowsRequest(cmd *cobra.Command) (model.GetWindowsRequest, error) {
	req := cfg.GetWindowsRequest()
	if v, _ := cmd.Flags().GetString("new-window-position"); v != "" {
		pos, err := model.ParsePosition(v)
		if err != nil {
			return req, err
		}
		req.NewWindowPosition = pos
	}
	if v, _ := cmd.Flags().GetString("activation-mode"); v != "" {
		mode, err := model.ParseActivationMode(v)
		if err != nil {
			return req, err
		}
		req.ActivationMode = mode
	}
	return req, nil
}

func runWindows(cmd *cobra.Command, args []string) error {
	req, err := windowsRequest(cmd)
	if err != nil {
		return err
	}
	windows, err := newClient().GetWindows(commandContext(cmd), req)
	if err != nil {
		return err
	}
	return output.Print(windows)
}

type activateResult struct {
	OK bool `yaml:"ok" json:"ok"`
	ID int  `yaml:"id" json:"id"`
}

func runActivate(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid window ID %q", args[0])
	}
	if err := newClient().ActivateWindow(commandContext(cmd), id); err != nil {
		return err
	}
	return output.Print(activateResult{OK: true, ID: id})
}
