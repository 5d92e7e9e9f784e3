// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"syscall"
)

// HintError is an error with an actionable suggestion printed after
// the message.
type HintError struct {
	Err  error
	Hint string
}

func (e *HintError) Error() string {
	return e.Err.Error() + "\n\nhint: " + e.Hint
}

func (e *HintError) Unwrap() error { return e.Err }

// DiagnoseSocketError explains a failure to reach lockupd. It returns
// nil when the error is not a recognized connection failure; the
// caller should use its own wrapping then.
func DiagnoseSocketError(err error, socketPath string) *HintError {
	switch {
	case errors.Is(err, syscall.ENOENT), errors.Is(err, syscall.ECONNREFUSED):
		return &HintError{
			Err: fmt.Errorf("lockupd is not running at %s: %w", socketPath, err),
			Hint: "Start the daemon with 'lockupd --config <file>', or point --socket " +
				"(or paths.socket in the config) at the running daemon.",
		}
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		return &HintError{
			Err: fmt.Errorf("permission denied accessing %s: %w", socketPath, err),
			Hint: "The lockupd socket is mode 0600. Run the CLI as the user that runs lockupd.\n" +
				"Check the owner with: ls -la " + socketPath,
		}
	default:
		return nil
	}
}
