// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package release implements "lockup release" and "lockup watch".
//
// Releases are keyed by (beneficiary, nonce). The owner creates and
// revokes them; the beneficiary withdraws whatever has vested. Both
// withdraw and revoke accept --if-version, the store version shown by
// "release show", so a stale view cannot act on a changed release.
package release
