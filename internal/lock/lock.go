// Package lock prevents two comparison runs from writing to the same
// output directory at once, using a JSON lock file with stale detection.
package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sitediff/internal/domain"
)

const (
	// LockFileName is the name of the lock file
	LockFileName = ".sitediff.lock"
	// DefaultStaleTimeout is the fallback staleness window for locks
	// left by another host, where process liveness can't be checked
	DefaultStaleTimeout = 30 * time.Minute
)

// LockInfo contains metadata about the lock holder.
type LockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	StartTime time.Time `json:"start_time"`
	RunLabel  string    `json:"run_label,omitempty"`
}

// RunLock is a file-based lock guarding a comparison run.
type RunLock struct {
	lockPath     string
	staleTimeout time.Duration
	info         *LockInfo
}

// New creates a lock instance rooted in lockDir. The directory is
// created if missing.
func New(lockDir string) (*RunLock, error) {
	if lockDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config dir: %w", err)
		}
		lockDir = filepath.Join(configDir, "sitediff")
	}

	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	return &RunLock{
		lockPath:     filepath.Join(lockDir, LockFileName),
		staleTimeout: DefaultStaleTimeout,
	}, nil
}

// SetStaleTimeout overrides the cross-host staleness window.
func (l *RunLock) SetStaleTimeout(d time.Duration) {
	l.staleTimeout = d
}

// Acquire attempts to take the lock for a run. Returns a
// domain.ErrRunInProgress-wrapped error if another live process holds it.
func (l *RunLock) Acquire(runLabel string) error {
	if existing, err := l.readLockInfo(); err == nil {
		if l.isStale(existing) {
			if err := os.Remove(l.lockPath); err != nil {
				return fmt.Errorf("failed to remove stale lock: %w", err)
			}
		} else {
			return holderError(existing)
		}
	}

	hostname, _ := os.Hostname()
	info := &LockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		StartTime: time.Now(),
		RunLabel:  runLabel,
	}

	// O_CREATE|O_EXCL closes the window between the staleness check
	// and lock creation.
	file, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			existing, readErr := l.readLockInfo()
			if readErr != nil {
				return fmt.Errorf("lock acquisition race: %w", err)
			}
			return holderError(existing)
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(info); err != nil {
		os.Remove(l.lockPath)
		return fmt.Errorf("failed to write lock info: %w", err)
	}

	l.info = info
	return nil
}

// Release releases the lock held by this instance.
func (l *RunLock) Release() error {
	if l.info == nil {
		return nil
	}

	existing, err := l.readLockInfo()
	if err != nil {
		l.info = nil
		return nil
	}

	if !l.isHeldByThisInstance(existing) {
		l.info = nil
		return fmt.Errorf("lock was taken over by another process")
	}

	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	l.info = nil
	return nil
}

// IsLocked reports whether a live lock exists.
func (l *RunLock) IsLocked() bool {
	info, err := l.readLockInfo()
	if err != nil {
		return false
	}
	return !l.isStale(info)
}

// Holder returns information about the current live lock holder.
func (l *RunLock) Holder() (*LockInfo, error) {
	info, err := l.readLockInfo()
	if err != nil {
		return nil, err
	}
	if l.isStale(info) {
		return nil, fmt.Errorf("lock is stale")
	}
	return info, nil
}

// ForceRelease removes the lock file regardless of holder. Only for
// recovery after a crash.
func (l *RunLock) ForceRelease() error {
	if err := os.Remove(l.lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to force remove lock: %w", err)
	}
	l.info = nil
	return nil
}

func (l *RunLock) readLockInfo() (*LockInfo, error) {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return nil, err
	}

	var info LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("invalid lock file format: %w", err)
	}
	return &info, nil
}

// isStale considers a lock stale when its process is dead. The timeout
// only applies to locks from other hosts, where liveness can't be
// checked.
func (l *RunLock) isStale(info *LockInfo) bool {
	hostname, _ := os.Hostname()
	if info.Hostname == hostname {
		return !processExists(info.PID)
	}
	return time.Since(info.StartTime) > l.staleTimeout
}

func (l *RunLock) isHeldByThisInstance(info *LockInfo) bool {
	hostname, _ := os.Hostname()
	return l.info != nil && info.PID == os.Getpid() && info.Hostname == hostname
}

func holderError(info *LockInfo) error {
	return fmt.Errorf("%w: held by pid %d on %s since %s",
		domain.ErrRunInProgress, info.PID, info.Hostname,
		info.StartTime.Format(time.RFC3339))
}
