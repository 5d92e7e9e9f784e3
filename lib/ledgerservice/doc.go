// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledgerservice implements the lockupd socket actions.
//
// [Service.Register] installs one handler per action on a
// [service.SocketServer]. "submit" is the only action that changes
// state; it hands signed transition bytes to a [transition.Processor].
// Every other action is a read-only query evaluated in a single store
// view at the service clock's current time:
//
//	status     uptime, applied transitions, record count, build
//	release    one release with vested and available amounts
//	releases   every release, optionally for one beneficiary
//	available  the withdrawable amount of one release
//	admin      the ledger admin record
//	authority  a token's mint proxy state
//	minter     one registered minter
//	minters    every minter of a token
//	mint       a token's mint record
//	balance    a holder's token balance
//
// Malformed requests fail with fault.InvalidConfig; ledger errors keep
// their fault kind across the socket.
package ledgerservice
