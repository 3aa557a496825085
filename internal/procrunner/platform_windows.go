//go:build windows

package procrunner

import (
	"os"
	"os/exec"
	"syscall"
)

// terminate kills the process directly. Windows has no POSIX-style graceful
// signal delivery for arbitrary child processes, so the "graceful" half of
// the two-signal protocol degrades to the same Kill the forced half uses;
// the grace period still applies before we'd escalate further.
func terminate(p *os.Process) error {
	return p.Kill()
}

// setWindowsAttrs hides the child's console window, matching spec §4.2's
// "platform flag to hide console windows" requirement.
func setWindowsAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
