// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the ledger's error kinds.
//
// Every rejected transition fails with a *Error whose Kind names the
// invariant that would have been violated and whose message carries
// the numbers involved. Callers branch on the kind, never on message
// text:
//
//	if errors.Is(err, fault.ErrInsufficientVested) {
//	    // recompute available and resubmit a smaller amount
//	}
//
// Kinds survive the daemon socket: the server puts KindOf(err) in the
// response and the client rebuilds an *Error from it, so errors.Is
// works identically on both sides of the wire.
package fault
