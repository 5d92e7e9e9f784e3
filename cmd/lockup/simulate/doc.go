// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package simulate implements "lockup simulate", which runs a YAML
// scenario against an in-memory ledger on a fake clock and reports
// each step's outcome.
package simulate
