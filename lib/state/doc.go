// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package state is the ledger's durable record store.
//
// Every record lives under a (program, address) key. Programs are the
// fixed namespaces of the system ("token", "mintproxy", "lockup",
// "transition"); addresses are 32-byte values, either an identity
// converted with [FromIdentity] or a deterministic [Derive] result.
// Derived addresses play the role of program-owned accounts: nobody
// holds a private key for them, so only the program logic that derives
// them can act on their behalf.
//
// Records are deterministic CBOR (lib/codec). Each carries a kind
// string, used by [Tx.List], and a version counter that Put increments.
//
// Two [Store] implementations exist:
//
//   - [SQLiteStore]: one table in a WAL-mode database. Update runs in
//     an IMMEDIATE transaction, so writers are serialized store-wide
//     and any error rolls the whole transaction back.
//   - [MemoryStore]: a mutex-serialized map with a per-transaction
//     overlay. Tests and dry-run simulation use it.
//
// [Export] and [Import] move the full record set through a compressed
// snapshot stream. [Lock] guards a state directory against a second
// daemon.
package state
