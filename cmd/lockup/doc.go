// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Lockup is the command-line client for lockupd. It generates keys,
// signs ledger transitions, queries releases, and runs offline
// scenarios. Run "lockup --help" for the command tree.
package main
