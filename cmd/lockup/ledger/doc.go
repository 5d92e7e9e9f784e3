// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ledger implements "lockup ledger": initializing the release
// ledger, moving its ownership, and showing its admin record.
package ledger
