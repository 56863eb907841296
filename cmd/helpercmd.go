package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mj1618/backtick/internal/helper"
	"github.com/mj1618/backtick/internal/logging"
	"github.com/mj1618/backtick/internal/platform"
	"github.com/mj1618/backtick/internal/version"
)

var helperCmd = &cobra.Command{
	Use:   "helper",
	Short: "Run the window helper in the foreground",
	Long: `Run the helper process in the foreground. It listens on the socket and
answers getStatus, requestPermission, getWindows, activateWindow and shutdown
requests until it receives shutdown or is interrupted.

"backtick start" runs this command detached from the terminal.`,
	Args: cobra.NoArgs,
	RunE: runHelper,
}

func init() {
	rootCmd.AddCommand(helperCmd)
}

func runHelper(cmd *cobra.Command, args []string) error {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	log := logging.NewDaemon(verbose)
	defer func() { _ = log.Sync() }()

	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	srv := helper.New(helper.Config{
		SocketPath: cfg.Socket,
		Editor:     cfg.Editor,
		Version:    version.Version,
	}, provider, log)

	if err := srv.Listen(); err != nil {
		log.Error("helper failed to start", zap.Error(err))
		return err
	}
	if provider.Permissions != nil && !provider.Permissions.IsTrusted() {
		log.Warn("accessibility permission not granted; activateWindow will fail until it is")
	}
	return srv.Serve(commandContext(cmd))
}
