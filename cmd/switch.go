package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/client"
	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/output"
)

var switchCmd = &cobra.Command{
	Use:   "switch",
	Short: "Switch to another editor window",
	Long: `Switch to another editor window in most-recently-used order.

Directions:
  forward    the window after the active one (the first other window when none is active)
  backward   the window before the active one (the last window when none is active)
  instant    the second window in the list, i.e. the previously used one

Bind "backtick switch" to a hotkey to flip between the two most recent windows.`,
	Args: cobra.NoArgs,
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchCmd.Flags().StringP("direction", "d", string(model.DirectionForward), "forward, backward, or instant")
	switchCmd.Flags().Bool("dry-run", false, "Print the window that would be activated without activating it")
	addWindowsRequestFlags(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	dirFlag, _ := cmd.Flags().GetString("direction")
	d, err := model.ParseDirection(dirFlag)
	if err != nil {
		return err
	}
	req, err := windowsRequest(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	c := newClient()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		windows, err := c.GetWindows(ctx, req)
		if err != nil {
			return err
		}
		idx, err := model.SelectIndex(windows, d)
		if err != nil {
			return tooFewWindows(cmd, err)
		}
		return output.Print(client.SwitchResult{Direction: d, To: windows[idx], Index: idx, Count: len(windows)})
	}

	result, err := c.Switch(ctx, req, d)
	if err != nil {
		return tooFewWindows(cmd, err)
	}
	return output.Print(result)
}

// tooFewWindows reports a single open window as a notice rather than a failure.
func tooFewWindows(cmd *cobra.Command, err error) error {
	if errors.Is(err, model.ErrTooFewWindows) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Only one editor window found.")
		return nil
	}
	return err
}
