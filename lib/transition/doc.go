// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transition applies signed instructions to the ledger.
//
// A transition is a CBOR payload naming an instruction kind, its
// signer, a body, and a validity window, followed by the signer's
// 64-byte Ed25519 signature over the payload. The verified signer is
// the caller identity for the instruction: no body field can name a
// different caller.
//
// [Processor.Submit] verifies the signature and expiry, then runs the
// instruction in one store Update. Inside that transaction it rejects
// an id that was already applied, stamps "now" from its clock, applies
// the instruction, and records the id. Any failure rolls back every
// write the instruction made, so a transition is all or nothing.
package transition
