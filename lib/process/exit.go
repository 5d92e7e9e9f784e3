// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/lockup/lib/fault"
)

const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitRejected  = 2
	ExitRetryable = 3
)

// ExitCode maps err to a process exit code. Errors that carry their
// own code (an ExitCode() int method anywhere in the chain) win.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	var faultErr *fault.Error
	if errors.As(err, &faultErr) {
		if faultErr.Kind.Retryable() {
			return ExitRetryable
		}
		return ExitRejected
	}
	return ExitFailure
}

// Report writes "error: err" to w and returns the exit code for err.
// Errors with their own exit code are assumed to have printed already.
func Report(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}
	var coder interface{ ExitCode() int }
	if !errors.As(err, &coder) {
		fmt.Fprintf(w, "error: %v\n", err)
	}
	return ExitCode(err)
}

// Fatal reports err on stderr and exits. Use it in main() for errors
// from run() where the structured logger may not be initialized.
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}
