//go:build windows

package lock

import "os"

// processExists checks if a process with the given PID exists.
func processExists(pid int) bool {
	// On Windows FindProcess fails for dead processes.
	_, err := os.FindProcess(pid)
	return err == nil
}
