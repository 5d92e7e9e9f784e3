// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool opens the ledger database as a pool of
// zombiezen.com/go/sqlite connections that all share one set of
// pragmas: WAL journaling, a five second busy timeout, and
// synchronous=FULL unless the caller asks for NORMAL.
//
// Most callers use [Pool.Update] and [Pool.View], which borrow a
// connection and wrap fn in a transaction. [Pool.Take] and [Pool.Put]
// are there for anything else.
package sqlitepool
