// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

// LockFileName is the lock file created inside a state directory.
const LockFileName = "lockupd.lock"

// ErrLocked is returned by Lock when another process holds the lock.
var ErrLocked = errors.New("state: state directory is locked by another process")

// DirLock is an exclusive flock on a state directory. It is released
// by Release or when the process exits.
type DirLock struct {
	file *os.File
	path string
}

// Lock takes the exclusive lock on dir without blocking. The holder's
// PID is written into the lock file for diagnostics.
func Lock(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("state: creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, LockFileName)
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("state: opening lock file: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("state: locking %s: %w", path, err)
	}

	if err := file.Truncate(0); err == nil {
		file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &DirLock{file: file, path: path}, nil
}

// Path returns the lock file path.
func (l *DirLock) Path() string {
	return l.path
}

// Release drops the lock. The lock file stays on disk.
func (l *DirLock) Release() error {
	if err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		l.file.Close()
		return fmt.Errorf("state: unlocking %s: %w", l.path, err)
	}
	return l.file.Close()
}
