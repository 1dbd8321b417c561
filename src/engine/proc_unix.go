//go:build unix

package engine

import (
	"os/exec"
	"syscall"
)

// detach runs the engine in its own process group, out of reach of
// interrupts sent to ours.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func exitSignal(err *exec.ExitError) string {
	ws, ok := err.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return ws.Signal().String()
}
