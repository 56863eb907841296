package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mj1618/backtick/internal/output"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Smoke-test the running helper",
	Long: `Exercise the running helper step by step and report each result:
getStatus, getWindows, and optionally activateWindow (on the second window)
and shutdown. Exits with status 1 if any step fails.`,
	Args: cobra.NoArgs,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().Bool("activate", false, "Activate the second window and list again")
	probeCmd.Flags().Bool("shutdown", false, "Send shutdown after the other steps")
}

var (
	probeStyles = []*color.Color{
		color.New(color.FgGreen),
		color.New(color.FgRed),
		color.New(color.Faint),
		color.New(color.Bold),
	}
	probeOK   = probeStyles[0].SprintFunc()
	probeFail = probeStyles[1].SprintFunc()
	probeDim  = probeStyles[2].SprintFunc()
	probeHead = probeStyles[3].SprintFunc()
)

// setProbeColor turns the report styles on or off.
func setProbeColor(enabled bool) {
	for _, c := range probeStyles {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// probeReport prints numbered steps and remembers whether any failed.
type probeReport struct {
	w      io.Writer
	step   int
	failed bool
}

func (r *probeReport) begin(name string) {
	r.step++
	fmt.Fprintf(r.w, "\n%d. Testing %s...\n", r.step, name)
}

func (r *probeReport) ok(format string, a ...interface{}) {
	fmt.Fprintf(r.w, "   %s %s\n", probeOK("ok"), fmt.Sprintf(format, a...))
}

func (r *probeReport) fail(err error) {
	r.failed = true
	fmt.Fprintf(r.w, "   %s %v\n", probeFail("failed"), err)
}

func (r *probeReport) line(format string, a ...interface{}) {
	fmt.Fprintf(r.w, "      %s\n", fmt.Sprintf(format, a...))
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	c := newClient()
	activate, _ := cmd.Flags().GetBool("activate")
	shutdown, _ := cmd.Flags().GetBool("shutdown")

	r := &probeReport{w: cmd.OutOrStdout()}
	setProbeColor(!color.NoColor && !output.IsOutputPiped() && r.w == io.Writer(os.Stdout))
	fmt.Fprintln(r.w, probeHead("Testing backtick helper at "+c.SocketPath()))
	fmt.Fprintln(r.w, strings.Repeat("=", 40))

	r.begin("getStatus")
	status, err := c.GetStatus(ctx)
	if err != nil {
		r.fail(err)
	} else {
		r.ok("accessibility permission: %v, pid: %d, version: %s",
			status.HasAccessibilityPermission, status.PID, status.Version)
	}

	listWindows := func() int {
		r.begin("getWindows")
		windows, err := c.GetWindows(ctx, cfg.GetWindowsRequest())
		if err != nil {
			r.fail(err)
			return -1
		}
		r.ok("found %d windows", len(windows))
		for _, w := range windows {
			active := ""
			if w.IsCurrentlyActive {
				active = probeOK(" (active)")
			}
			r.line("%s %s%s", probeDim(fmt.Sprintf("%d", w.ID)), w.Title, active)
		}
		if activate && len(windows) > 1 {
			return windows[1].ID
		}
		return 0
	}

	target := listWindows()
	if activate {
		switch {
		case target > 0:
			r.begin("activateWindow")
			if err := c.ActivateWindow(ctx, target); err != nil {
				r.fail(err)
			} else {
				r.ok("activated window %d", target)
				listWindows()
			}
		case target == 0:
			fmt.Fprintln(r.w, "\nSkipping activateWindow: fewer than 2 windows available.")
		}
	}

	if shutdown {
		r.begin("shutdown")
		if err := c.Shutdown(ctx); err != nil {
			r.fail(err)
		} else {
			r.ok("helper is shutting down")
		}
	}

	if r.failed {
		return fmt.Errorf("helper probe failed")
	}
	return nil
}
