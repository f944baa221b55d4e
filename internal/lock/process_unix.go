//go:build !windows

package lock

import (
	"errors"
	"os"
	"syscall"
)

// processExists checks if a process with the given PID exists.
func processExists(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// On Unix FindProcess always succeeds; signal 0 probes existence.
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM: exists but not signalable by us.
	return errors.Is(err, syscall.EPERM)
}
