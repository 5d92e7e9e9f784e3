// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "strconv"

// ExitError ends the process with Code and no "error:" line. A command
// returns it after it has already reported the failure itself, as
// "lockup simulate" does for a scenario step that missed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return "exit status " + strconv.Itoa(e.Code) }

// ExitCode satisfies the interface process.ExitCode looks for.
func (e *ExitError) ExitCode() int { return e.Code }
