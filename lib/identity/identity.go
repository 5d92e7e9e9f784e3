// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// Size is the length of an identity in bytes.
const Size = ed25519.PublicKeySize

// Identity is an Ed25519 public key. The zero value means "nobody" and
// never verifies a signature.
type Identity [Size]byte

// FromPublicKey converts an Ed25519 public key to an Identity.
func FromPublicKey(public ed25519.PublicKey) (Identity, error) {
	var id Identity
	if len(public) != Size {
		return id, fmt.Errorf("identity: public key has %d bytes, want %d", len(public), Size)
	}
	copy(id[:], public)
	return id, nil
}

// Parse decodes a base58 identity.
func Parse(text string) (Identity, error) {
	var id Identity
	if text == "" {
		return id, fmt.Errorf("identity: empty string")
	}
	decoded := base58.Decode(text)
	if len(decoded) != Size {
		return id, fmt.Errorf("identity: %q decodes to %d bytes, want %d", text, len(decoded), Size)
	}
	copy(id[:], decoded)
	return id, nil
}

// MustParse is Parse for constants and tests. Panics on error.
func MustParse(text string) Identity {
	id, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the base58 form.
func (id Identity) String() string {
	return base58.Encode(id[:])
}

// Short returns the first eight base58 characters, for log lines and
// terminal tables where the full key is noise.
func (id Identity) Short() string {
	text := id.String()
	if len(text) <= 8 {
		return text
	}
	return text[:8]
}

// IsZero reports whether id is the zero identity.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// PublicKey returns id as an Ed25519 public key.
func (id Identity) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(bytes.Clone(id[:]))
}

// Verify reports whether signature is id's signature over message.
func (id Identity) Verify(message, signature []byte) bool {
	if id.IsZero() || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(id.PublicKey(), message, signature)
}

// MarshalText implements encoding.TextMarshaler. CBOR records and JSON
// output both carry identities as base58 strings.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
