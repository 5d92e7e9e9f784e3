// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Lockupd owns the ledger database and serves it over a Unix socket.
//
// The daemon takes an exclusive lock on the state directory, opens the
// SQLite store, and applies signed transitions submitted by the lockup
// CLI. Every state change goes through the "submit" action; the other
// actions are read-only queries evaluated at the daemon's clock.
//
// Configuration comes from --config or LOCKUP_CONFIG. With neither,
// the built-in defaults are used.
package main
