package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/client"
	"github.com/mj1618/backtick/internal/launcher"
	"github.com/mj1618/backtick/internal/output"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the helper in the background",
	Long: `Start the helper as a background process, replacing any helper that is
already running, and wait until it answers on the socket.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running helper",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	startCmd.Flags().Bool("request-permission", false, "Show the accessibility prompt if the helper lacks permission")
	startCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

func runStart(cmd *cobra.Command, args []string) error {
	l, err := launcher.New(newClient(), cfg.StartTimeout, logger)
	if err != nil {
		return err
	}

	requestPermission, _ := cmd.Flags().GetBool("request-permission")
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	configPath, err := helperConfigPath()
	if err != nil {
		return err
	}
	result, err := l.Start(commandContext(cmd), launcher.Options{
		RequestPermission: requestPermission,
		Verbose:           verbose,
		ConfigPath:        configPath,
	})
	if err != nil {
		return err
	}

	if !result.HasAccessibilityPermission && !result.PermissionRequested {
		fmt.Fprintln(cmd.ErrOrStderr(), "The helper needs accessibility permission to raise windows. Run \"backtick start --request-permission\" to be prompted.")
	}
	return output.Print(result)
}

// helperConfigPath returns the --config value as an absolute path, since the
// helper does not run from the caller's working directory.
func helperConfigPath() (string, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

func runStop(cmd *cobra.Command, args []string) error {
	l, err := launcher.New(newClient(), cfg.StartTimeout, logger)
	if err != nil {
		return err
	}
	err = l.Stop(commandContext(cmd))
	if errors.Is(err, client.ErrHelperNotRunning) {
		return fmt.Errorf("no helper is running at %s", cfg.Socket)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "helper stopped")
	return nil
}
