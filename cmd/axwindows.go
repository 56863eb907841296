package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/model"
	"github.com/mj1618/backtick/internal/output"
	"github.com/mj1618/backtick/internal/platform"
)

var axWindowsCmd = &cobra.Command{
	Use:   "ax-windows",
	Short: "List an application's window titles through the accessibility API",
	Long: `List the window titles of a running application as seen through the
accessibility API. This is what the helper relies on to raise a window, so it
is the quickest way to check that accessibility permission works.

Exits with status 1 when the application is not running, when permission has
not been granted, or when no windows are open.`,
	RunE: runAXWindows,
}

func init() {
	rootCmd.AddCommand(axWindowsCmd)
	axWindowsCmd.Flags().String("bundle-id", "", "Bundle identifier of the application (default: configured editor)")
}

type axWindow struct {
	Index int    `yaml:"index"           json:"index"`
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
}

type axWindowsResult struct {
	App     model.App  `yaml:"app"     json:"app"`
	Windows []axWindow `yaml:"windows" json:"windows"`
}

func runAXWindows(cmd *cobra.Command, args []string) error {
	bundleID, _ := cmd.Flags().GetString("bundle-id")
	if bundleID == "" {
		bundleID = cfg.Editor.BundleID
	}

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.WindowManager == nil || provider.Reader == nil {
		return fmt.Errorf("accessibility not available on this platform")
	}

	app, err := provider.WindowManager.RunningApp(bundleID)
	if errors.Is(err, platform.ErrAppNotRunning) {
		return fmt.Errorf("%s is not running", displayName(bundleID))
	}
	if err != nil {
		return err
	}
	logger.Debug("found running application", zap.String("bundleID", bundleID), zap.Int("pid", app.PID))

	titles, err := provider.Reader.AccessibilityWindowTitles(app.PID)
	if errors.Is(err, platform.ErrAccessibilityDisabled) {
		fmt.Fprintln(cmd.ErrOrStderr(), platform.PermissionRemediation)
		return err
	}
	if err != nil {
		return fmt.Errorf("could not retrieve window list from %s: %w", displayName(bundleID), err)
	}
	if len(titles) == 0 {
		return fmt.Errorf("could not retrieve window list from %s: no windows are open", displayName(bundleID))
	}

	result := axWindowsResult{App: app}
	for i, title := range titles {
		result.Windows = append(result.Windows, axWindow{Index: i + 1, Title: title})
	}
	return output.Print(result)
}

// displayName returns a human name for well-known bundle identifiers.
func displayName(bundleID string) string {
	if bundleID == model.DefaultEditorBundleID {
		return "Visual Studio Code"
	}
	return bundleID
}
