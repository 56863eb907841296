package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/protocol"
)

var sendCmd = &cobra.Command{
	Use:   "send COMMAND [PAYLOAD]",
	Short: "Send one raw request to the helper",
	Long: `Send COMMAND, or COMMAND:PAYLOAD when a payload is given, to the helper and
print the body of its reply. An ERROR: reply exits with status 1.

Known commands: ` + strings.Join(protocol.Commands, ", ") + `

Examples:
  backtick send getStatus
  backtick send getWindows '{"newWindowPosition":"top","activationMode":"manual"}'
  backtick send activateWindow '{"id":1234}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Bool("raw", false, "Print the reply as received, without checking its prefix")
}

func runSend(cmd *cobra.Command, args []string) error {
	req := protocol.Request{Command: args[0]}
	if len(args) == 2 {
		req.Payload = args[1]
	}
	if req.Command == "" || strings.Contains(req.Command, ":") {
		return fmt.Errorf("invalid command %q", req.Command)
	}

	c := newClient()
	raw, _ := cmd.Flags().GetBool("raw")
	if raw {
		reply, err := c.Roundtrip(commandContext(cmd), req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	}

	body, err := c.SendRaw(commandContext(cmd), req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), body)
	return nil
}
