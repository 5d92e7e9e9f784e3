// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "time"

// TB is the part of testing.TB the channel helpers call.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch. The test fails if ch
// is closed or stays empty for timeout; what names the wait in the
// failure.
//
//	err := testutil.RequireReceive(t, done, 5*time.Second, "serve did not return")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, what string) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case value, open := <-ch:
		if !open {
			t.Fatalf("%s: channel closed with no value", what)
		}
		return value
	case <-timer.C:
		t.Fatalf("%s: nothing received in %v", what, timeout)
	}
	var zero T
	return zero
}

// RequireClosed fails the test unless ch closes within timeout. Ready
// and done channels use it.
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, what string) {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ch:
	case <-timer.C:
		t.Fatalf("%s: not closed after %v", what, timeout)
	}
}
