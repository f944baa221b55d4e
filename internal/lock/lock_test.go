package lock

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sitediff/internal/domain"
)

func newTestLock(t *testing.T) *RunLock {
	t.Helper()
	l, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestAcquireRelease(t *testing.T) {
	l := newTestLock(t)

	if err := l.Acquire("alpha-vs-beta"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !l.IsLocked() {
		t.Error("IsLocked = false after Acquire")
	}

	holder, err := l.Holder()
	if err != nil {
		t.Fatalf("Holder: %v", err)
	}
	if holder.PID != os.Getpid() {
		t.Errorf("holder pid = %d, want %d", holder.PID, os.Getpid())
	}
	if holder.RunLabel != "alpha-vs-beta" {
		t.Errorf("run label = %q", holder.RunLabel)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if l.IsLocked() {
		t.Error("IsLocked = true after Release")
	}
}

func TestAcquire_AlreadyHeld(t *testing.T) {
	dir := t.TempDir()
	first, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Acquire("run-1"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer first.Release()

	second, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Acquire("run-2"); !errors.Is(err, domain.ErrRunInProgress) {
		t.Errorf("err = %v, want ErrRunInProgress", err)
	}
}

func TestAcquire_StaleLockFromDeadProcess(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// A lock file left by a process that no longer exists must be
	// reclaimable. PID 1 exists everywhere, so use an implausible one.
	hostname, _ := os.Hostname()
	stale := &LockInfo{PID: 99999999, Hostname: hostname, StartTime: time.Now()}
	writeLockFile(t, filepath.Join(dir, LockFileName), stale)

	if err := l.Acquire("recovered"); err != nil {
		t.Fatalf("Acquire over stale lock: %v", err)
	}
	defer l.Release()
}

func TestAcquire_ForeignHostTimeout(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.SetStaleTimeout(time.Minute)

	fresh := &LockInfo{PID: 1234, Hostname: "other-host", StartTime: time.Now()}
	writeLockFile(t, filepath.Join(dir, LockFileName), fresh)

	if err := l.Acquire("blocked"); !errors.Is(err, domain.ErrRunInProgress) {
		t.Fatalf("err = %v, want ErrRunInProgress", err)
	}

	old := &LockInfo{PID: 1234, Hostname: "other-host", StartTime: time.Now().Add(-2 * time.Minute)}
	writeLockFile(t, filepath.Join(dir, LockFileName), old)

	if err := l.Acquire("reclaimed"); err != nil {
		t.Fatalf("Acquire over timed-out foreign lock: %v", err)
	}
	defer l.Release()
}

func TestRelease_NotHeld(t *testing.T) {
	l := newTestLock(t)
	if err := l.Release(); err != nil {
		t.Errorf("Release without Acquire: %v", err)
	}
}

func TestForceRelease(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.Acquire("run"); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if err := l.ForceRelease(); err != nil {
		t.Fatalf("ForceRelease: %v", err)
	}
	if l.IsLocked() {
		t.Error("IsLocked = true after ForceRelease")
	}
}

func writeLockFile(t *testing.T, path string, info *LockInfo) {
	t.Helper()
	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal lock info: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write lock file: %v", err)
	}
}
