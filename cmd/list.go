package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/output"
	"github.com/mj1618/backtick/internal/platform"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List on-screen windows of the frontmost application",
	Long: `List the on-screen windows that belong to the frontmost application, as
reported by the window server, with their ID, title and bounds.

Use --pid or --app to inspect another application instead.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Int("pid", 0, "List windows of this process ID")
	listCmd.Flags().String("app", "", "List windows of this application name")
	listCmd.Flags().Bool("all-layers", false, "Include menu bar, dock and other non-document layers")
	listCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

// listResult is the output of the list command.
type listResult struct {
	App     *model.App     `yaml:"frontmost,omitempty" json:"frontmost,omitempty"`
	Windows []model.Window `yaml:"windows"             json:"windows"`
}

func runList(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Reader == nil {
		return fmt.Errorf("reader not available on this platform")
	}

	pid, _ := cmd.Flags().GetInt("pid")
	appName, _ := cmd.Flags().GetString("app")
	allLayers, _ := cmd.Flags().GetBool("all-layers")

	var result listResult
	if pid == 0 && appName == "" {
		if provider.WindowManager == nil {
			return fmt.Errorf("window manager not available on this platform")
		}
		front, err := provider.WindowManager.FrontmostApp()
		if err != nil {
			return fmt.Errorf("frontmost application: %w", err)
		}
		result.App = &front
		pid = front.PID
	}

	windows, err := provider.Reader.ListWindows(platform.ListOptions{
		PID:          pid,
		App:          appName,
		OnScreenOnly: true,
		AllLayers:    allLayers,
	})
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No windows found for this process.")
		return nil
	}

	result.Windows = windows
	return output.Print(result)
}
