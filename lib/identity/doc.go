// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity defines who may sign ledger transitions.
//
// An Identity is an Ed25519 public key. Owners, beneficiaries, minters
// and token mints are all identities; the ledger authorizes an
// operation by checking that the transition was signed by the key the
// operation's role requires. The text form is base58, the same
// alphabet Solana-style tooling uses for account keys, so identities
// copy cleanly between terminals and config files.
//
// Keypair files hold the 64-byte Ed25519 private key. When a passphrase
// is supplied the file is sealed with age's scrypt recipient; Load
// detects the age header and asks for the passphrase only then.
package identity
