// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version identifies the lockupd and lockup binaries.
//
// Release builds inject GitCommit, GitDirty, and BuildTime with
// -ldflags -X. Binaries built without them report the revision the go
// command embedded from the checkout, or "unknown" when there is none.
package version
