// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot implements "lockup snapshot": exporting the ledger
// database to a portable file and importing it into an empty one.
//
// Both directions open the database directly and hold the state
// directory lock, so lockupd must be stopped first.
package snapshot
