// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
	"slices"
)

// Kind identifies a class of rejected transition. Kind values are wire
// constants (they appear in socket responses); never rename one.
type Kind string

const (
	// Unauthorized: the signer lacks the role the operation requires.
	Unauthorized Kind = "unauthorized"

	// InvalidConfig: bad constructor or instruction arguments, such as
	// a zero hard cap, a zero release amount, or end_ts <= start_ts.
	InvalidConfig Kind = "invalid_config"

	// UnknownMinter: the minter identity was never registered, or was
	// removed.
	UnknownMinter Kind = "unknown_minter"

	// AllowanceExceeded: issuance larger than the minter's remaining
	// allowance.
	AllowanceExceeded Kind = "allowance_exceeded"

	// CapExceeded: issuance would push total_issued past hard_cap.
	CapExceeded Kind = "cap_exceeded"

	// Revoked: withdrawal from a revoked release.
	Revoked Kind = "revoked"

	// AlreadyRevoked: the release was revoked by an earlier transition.
	AlreadyRevoked Kind = "already_revoked"

	// NothingToRevoke: the release is fully withdrawn; revoking it
	// would change nothing.
	NothingToRevoke Kind = "nothing_to_revoke"

	// InsufficientVested: the requested withdrawal exceeds the vested
	// and not yet withdrawn amount.
	InsufficientVested Kind = "insufficient_vested"

	// NoPendingTransfer: accept or cancel with no transfer proposed.
	NoPendingTransfer Kind = "no_pending_transfer"

	// DuplicateRelease: a live release already exists under the key.
	DuplicateRelease Kind = "duplicate_release"

	// UnknownRelease: no release exists under the key.
	UnknownRelease Kind = "unknown_release"

	// UnknownToken: no mint exists for the token identity.
	UnknownToken Kind = "unknown_token"

	// NotInitialized: the mint authority or ledger has not been
	// created yet.
	NotInitialized Kind = "not_initialized"

	// AlreadyInitialized: a second create for a singleton record.
	AlreadyInitialized Kind = "already_initialized"

	// Overflow: an arithmetic result does not fit in uint64.
	Overflow Kind = "overflow"

	// InvalidSignature: the transition signature does not verify
	// against the claimed signer.
	InvalidSignature Kind = "invalid_signature"

	// Expired: the transition's validity window has closed.
	Expired Kind = "expired"

	// Replayed: a transition with the same id was already applied.
	Replayed Kind = "replayed"

	// Conflict: the state changed under a conditional write.
	Conflict Kind = "conflict"

	// Internal: storage or encoding failure unrelated to the caller's
	// request.
	Internal Kind = "internal"
)

var kinds = []Kind{
	Unauthorized, InvalidConfig, UnknownMinter, AllowanceExceeded, CapExceeded,
	Revoked, AlreadyRevoked, NothingToRevoke, InsufficientVested, NoPendingTransfer,
	DuplicateRelease, UnknownRelease, UnknownToken, NotInitialized, AlreadyInitialized,
	Overflow, InvalidSignature, Expired, Replayed, Conflict, Internal,
}

// Kinds returns every defined kind.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// Known reports whether k is a defined kind.
func (k Kind) Known() bool {
	return slices.Contains(kinds, k)
}

// Retryable reports whether resubmitting with adjusted parameters (a
// smaller amount, a fresh transition id or expiry) can succeed.
// Authorization and configuration failures are final.
func (k Kind) Retryable() bool {
	switch k {
	case InsufficientVested, Conflict, Expired:
		return true
	default:
		return false
	}
}

// Error is a rejected transition. Message is empty only for the
// package-level sentinels used as errors.Is targets.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// Is matches any *Error of the same kind, so a detailed error satisfies
// errors.Is against the kind's sentinel.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// Errorf returns an *Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or
// Internal if there is none. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var faultError *Error
	if errors.As(err, &faultError) {
		return faultError.Kind
	}
	return Internal
}

// Sentinels for errors.Is.
var (
	ErrUnauthorized       = &Error{Kind: Unauthorized}
	ErrInvalidConfig      = &Error{Kind: InvalidConfig}
	ErrUnknownMinter      = &Error{Kind: UnknownMinter}
	ErrAllowanceExceeded  = &Error{Kind: AllowanceExceeded}
	ErrCapExceeded        = &Error{Kind: CapExceeded}
	ErrRevoked            = &Error{Kind: Revoked}
	ErrAlreadyRevoked     = &Error{Kind: AlreadyRevoked}
	ErrNothingToRevoke    = &Error{Kind: NothingToRevoke}
	ErrInsufficientVested = &Error{Kind: InsufficientVested}
	ErrNoPendingTransfer  = &Error{Kind: NoPendingTransfer}
	ErrDuplicateRelease   = &Error{Kind: DuplicateRelease}
	ErrUnknownRelease     = &Error{Kind: UnknownRelease}
	ErrUnknownToken       = &Error{Kind: UnknownToken}
	ErrNotInitialized     = &Error{Kind: NotInitialized}
	ErrAlreadyInitialized = &Error{Kind: AlreadyInitialized}
	ErrOverflow           = &Error{Kind: Overflow}
	ErrInvalidSignature   = &Error{Kind: InvalidSignature}
	ErrExpired            = &Error{Kind: Expired}
	ErrReplayed           = &Error{Kind: Replayed}
	ErrConflict           = &Error{Kind: Conflict}
	ErrInternal           = &Error{Kind: Internal}
)
