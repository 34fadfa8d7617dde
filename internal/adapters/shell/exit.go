package shell

import (
	"os"
	"syscall"

	"go.trai.ch/hashbang/internal/core/domain"
)

// exitCode normalizes the termination status of a child process.
//
// A normal exit yields its code, death by signal yields the signal number and
// anything else yields domain.ExitIndeterminate.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return domain.ExitIndeterminate
	}
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return state.ExitCode()
	}
	switch {
	case status.Exited():
		return status.ExitStatus()
	case status.Signaled():
		return int(status.Signal())
	default:
		return domain.ExitIndeterminate
	}
}
