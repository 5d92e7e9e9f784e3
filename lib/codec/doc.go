// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the ledger's single CBOR configuration.
//
// Everything that is hashed, signed, or persisted goes through this
// package: stored account records, signed transition payloads, and the
// daemon's socket protocol. Encoding uses Core Deterministic Encoding
// (RFC 8949 §4.2), so a transition body re-encoded by the daemon
// produces the exact bytes the client signed, and two stores holding
// the same logical state hold byte-identical records.
//
// Buffer-oriented use (records, transition payloads):
//
//	data, err := codec.Marshal(release)
//	err = codec.Unmarshal(data, &release)
//
// Stream-oriented use (sockets, snapshots):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// A `cbor` tag marks a type that is only ever CBOR: stored records,
// the transition envelope, snapshot frames. A `json` tag marks a type
// that also appears in CLI --json output; fxamacker/cbor falls back to
// `json` tags when no `cbor` tag is present, so one tag names the field
// in both formats. Never put both tags on one field.
package codec
