// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the entrypoint helpers shared by lockupd and
// the lockup CLI: fatal error reporting before or after the structured
// logger exists, and the mapping from errors to exit codes.
//
// Exit codes are stable so scripts can branch on them:
//
//	0  success
//	1  unexpected failure (I/O, daemon unreachable, bad flags)
//	2  the ledger rejected the request with a final fault kind
//	3  the ledger rejected the request with a retryable fault kind
package process
