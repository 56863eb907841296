package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/client"
	"github.com/mj1618/backtick/internal/config"
	"github.com/mj1618/backtick/internal/logging"
	"github.com/mj1618/backtick/internal/output"
	"github.com/mj1618/backtick/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "backtick",
	Short: "Switch between editor windows in most-recently-used order",
	Long: `backtick keeps a most-recently-used list of Visual Studio Code windows and
switches between them. A small helper process tracks window focus and answers
requests over a Unix domain socket; the other commands talk to it.

Run "backtick start" once to launch the helper, then bind "backtick switch"
to a hotkey.`,
	SilenceUsage: true,
}

var (
	// cfg is the effective configuration: file values overridden by flags.
	cfg    = config.Default()
	logger = zap.NewNop()
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().String("socket", "", "Helper socket path (default from config, then "+config.Default().Socket+")")
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Helper round-trip timeout (default from config, then 5s)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
			if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
				output.PrettyOutput = true
			}
		}

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		logger = logging.New(verbose)

		if err := loadConfig(); err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			zap.String("socket", cfg.Socket),
			zap.Duration("timeout", cfg.Timeout),
			zap.String("newWindowPosition", string(cfg.NewWindowPosition)),
			zap.String("activationMode", string(cfg.ActivationMode)))
		return nil
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() error {
	flags := rootCmd.PersistentFlags()
	path, _ := flags.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}

	loaded, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	if socket, _ := flags.GetString("socket"); socket != "" {
		loaded.Socket = socket
	}
	if timeout, _ := flags.GetDuration("timeout"); timeout > 0 {
		loaded.Timeout = timeout
	}
	cfg = loaded
	return nil
}

// newClient returns a helper client for the effective configuration.
func newClient() *client.Client {
	return client.New(cfg.Socket,
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(logger))
}

// commandContext returns the command's context, which is cancelled on
// interrupt.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
