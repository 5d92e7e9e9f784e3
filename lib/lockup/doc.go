// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lockup is the release ledger: linear vesting grants whose
// tokens are issued on withdrawal through the mint proxy.
//
// Each release is keyed by (beneficiary, nonce) and owns a derived
// address. That address, read as an identity, is the release's minter
// on the mint proxy, registered with an allowance equal to the release
// amount when the release is created. A withdrawal issues through that
// minter, so the proxy's allowance and hard cap bound every release
// independently of the ledger's own bookkeeping.
//
// Revocation is one-way and cannot claw back anything already vested
// or withdrawn: it stops future withdrawals and zeroes the release's
// minter allowance in the same transaction.
//
// The ledger admin record binds the ledger to one mint proxy token.
// Initialize must be signed by the proxy owner: it binds the ledger's
// registrar identity on the proxy, and from then on the ledger changes
// the proxy's minter set as that registrar. Creating and revoking
// releases is gated only on ledger ownership, which can change hands
// independently of the proxy.
package lockup
