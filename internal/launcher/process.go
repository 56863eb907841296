package launcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/mj1618/backtick/internal/protocol"
)

// ProcessManager finds and stops helper processes left behind by earlier runs.
type ProcessManager interface {
	// FindHelpers returns PIDs of running `<exe> helper` processes serving
	// socket, other than the caller.
	FindHelpers(exe, socket string) ([]int, error)
	Kill(pid int) error
}

// SystemProcesses implements ProcessManager using gopsutil.
type SystemProcesses struct{}

// FindHelpers matches on the executable's base name, a `helper` subcommand
// argument and the socket the helper was started with.
func (SystemProcesses) FindHelpers(exe, socket string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	self := int32(os.Getpid())
	name := filepath.Base(exe)

	var found []int
	for _, p := range procs {
		if p.Pid == self {
			continue
		}
		args, err := p.CmdlineSlice()
		if err != nil {
			continue // Process may have exited
		}
		if IsHelperCommand(args, name) && HelperSocket(args) == socket {
			found = append(found, int(p.Pid))
		}
	}
	return found, nil
}

// Kill terminates a process by PID using SIGKILL.
func (SystemProcesses) Kill(pid int) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.Kill()
}

// IsHelperCommand reports whether args is an invocation of name's helper
// subcommand.
func IsHelperCommand(args []string, name string) bool {
	if len(args) < 2 || filepath.Base(args[0]) != name {
		return false
	}
	for _, arg := range args[1:] {
		if arg == "helper" {
			return true
		}
	}
	return false
}

// HelperSocket returns the socket a helper command line serves: the value of
// its --socket flag, or the default path when the flag is absent.
func HelperSocket(args []string) string {
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, "--socket="); ok {
			return v
		}
		if arg == "--socket" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return protocol.DefaultSocketPath
}

var _ ProcessManager = SystemProcesses{}
