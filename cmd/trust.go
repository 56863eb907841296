package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/output"
	"github.com/mj1618/backtick/internal/platform"
)

var trustCmd = &cobra.Command{
	Use:   "trust",
	Short: "Show whether this executable has accessibility permission",
	RunE:  runTrust,
}

func init() {
	rootCmd.AddCommand(trustCmd)
	trustCmd.Flags().Bool("prompt", false, "Show the system permission prompt if not yet trusted")
}

type trustResult struct {
	Executable string `yaml:"executable" json:"executable"`
	Trusted    bool   `yaml:"trusted"    json:"trusted"`
	Prompted   bool   `yaml:"prompted,omitempty" json:"prompted,omitempty"`
}

func runTrust(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	result := trustResult{Executable: exe}

	if provider.Permissions != nil {
		prompt, _ := cmd.Flags().GetBool("prompt")
		if prompt {
			result.Trusted = provider.Permissions.RequestTrust()
			result.Prompted = !result.Trusted
		} else {
			result.Trusted = provider.Permissions.IsTrusted()
		}
	}
	return output.Print(result)
}
