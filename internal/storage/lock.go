// Package storage owns the on-disk .wachter directory of a repository.
//
// Its lock file guards against two watch processes auto-committing the
// same repository, which would interleave staging and commits.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
)

// LockFileName is the lock file inside the .wachter directory.
const LockFileName = "wachter.lock"

// ErrAlreadyRunning is returned when another process holds the repo lock.
var ErrAlreadyRunning = errors.New("another wachter instance is watching this repository")

// RepoLock is a per-repository advisory lock backed by flock(2).
// It is released on Unlock or automatically when the process exits.
type RepoLock struct {
	path string
	file *os.File
}

// NewRepoLock creates a lock handle for a repository root.
func NewRepoLock(repoRoot string) *RepoLock {
	return &RepoLock{path: filepath.Join(repoRoot, ".wachter", LockFileName)}
}

// Path returns the lock file path.
func (l *RepoLock) Path() string {
	return l.path
}

// Acquire takes the lock without blocking. A held lock yields
// ErrAlreadyRunning so the caller can report the conflict and exit.
func (l *RepoLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return ErrAlreadyRunning
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	// The pid is informational for humans inspecting the file.
	_ = f.Truncate(0)
	_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)

	l.file = f
	return nil
}

// Release drops the lock. Safe to call when the lock is not held.
func (l *RepoLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	err := l.file.Close()
	l.file = nil
	return err
}
