// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package key implements "lockup keygen" and "lockup identity".
//
// Keys live in the configured key directory as NAME.key (the raw
// Ed25519 private key, or an age scrypt envelope around it) beside
// NAME.key.pub (the base58 identity). Every signing command takes the
// key by name with --key.
package key
