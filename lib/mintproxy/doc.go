// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package mintproxy gates issuance of one token behind a hard cap and
// per-minter allowances.
//
// Creating an authority moves the token's mint authority to an address
// derived from the authority record, so from then on every new token
// passes through [Issue]. Issue checks, in order, that the minter is
// registered, that the amount fits its remaining allowance, and that
// total_issued stays within hard_cap. Only when all three hold does it
// decrement the allowance, raise total_issued, and mint to the
// destination. Because every call runs inside a single state.Tx, a
// failed check writes nothing.
//
// The owner manages minters directly. It may also bind one registrar,
// an identity that can add and zero release minters on its own; the
// release ledger binds its derived identity this way at initialization.
//
// The authority record is the contention point of the system: every
// withdrawal from every release updates its total_issued.
package mintproxy
