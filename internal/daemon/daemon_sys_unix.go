//go:build linux || darwin

package daemon

import (
	"os"
	"os/exec"
	"syscall"
)

// setDaemonSysProcAttr detaches the background daemon into its own session
// so it survives the parent CLI process exiting.
func setDaemonSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// processExists probes the pid with signal 0.
func processExists(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}

func signalTerm(proc *os.Process) error {
	return proc.Signal(syscall.SIGTERM)
}
