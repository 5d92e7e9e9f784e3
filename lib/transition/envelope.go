// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transition

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
)

// signatureSize is the fixed size of an Ed25519 signature.
const signatureSize = ed25519.SignatureSize

// Transition is the signed payload.
type Transition struct {
	// ID is a random hex string. The processor applies each ID once.
	ID string `cbor:"1,keyasint"`

	Kind Kind `cbor:"2,keyasint"`

	// Signer must match the key that signed the payload.
	Signer identity.Identity `cbor:"3,keyasint"`

	// Body is the CBOR-encoded instruction arguments.
	Body codec.RawMessage `cbor:"4,keyasint"`

	// IssuedAt and ExpiresAt are Unix seconds. The processor rejects
	// the transition at or after ExpiresAt.
	IssuedAt  int64 `cbor:"5,keyasint"`
	ExpiresAt int64 `cbor:"6,keyasint"`
}

// New builds an unsigned transition valid for validity from issuedAt.
func New(kind Kind, signer identity.Identity, body any, issuedAt time.Time, validity time.Duration) (*Transition, error) {
	if !kind.Known() {
		return nil, fmt.Errorf("transition: unknown kind %q", kind)
	}
	if validity <= 0 {
		return nil, fmt.Errorf("transition: validity must be positive, got %s", validity)
	}
	encoded, err := codec.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("transition: encoding %s body: %w", kind, err)
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	return &Transition{
		ID:        id,
		Kind:      kind,
		Signer:    signer,
		Body:      encoded,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(validity).Unix(),
	}, nil
}

func newID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("transition: generating id: %w", err)
	}
	return hex.EncodeToString(raw[:]), nil
}

// DecodeBody unmarshals the body into v.
func (t *Transition) DecodeBody(v any) error {
	if err := codec.Unmarshal(t.Body, v); err != nil {
		return fault.Errorf(fault.InvalidConfig, "%s body: %v", t.Kind, err)
	}
	return nil
}

// Sign encodes t and appends keypair's signature. keypair must belong
// to t.Signer.
func Sign(keypair *identity.Keypair, t *Transition) ([]byte, error) {
	if keypair.Identity != t.Signer {
		return nil, fmt.Errorf("transition: signing key %s does not match signer %s", keypair.Identity, t.Signer)
	}
	payload, err := codec.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("transition: encoding payload: %w", err)
	}
	signature := keypair.Sign(payload)

	result := make([]byte, len(payload)+signatureSize)
	copy(result, payload)
	copy(result[len(payload):], signature)
	return result, nil
}

// Payload splits signed transition bytes and decodes the payload
// without checking the signature. Inspection tools use it; everything
// that acts on a transition calls Verify.
func Payload(data []byte) (*Transition, []byte, error) {
	if len(data) <= signatureSize {
		return nil, nil, fault.Errorf(fault.InvalidSignature, "transition is %d bytes, too short for a signature", len(data))
	}
	payload := data[:len(data)-signatureSize]
	var t Transition
	if err := codec.Unmarshal(payload, &t); err != nil {
		return nil, nil, fault.Errorf(fault.InvalidSignature, "decoding transition payload: %v", err)
	}
	return &t, payload, nil
}

// Verify checks the signature against the embedded signer and the
// expiry against now.
func Verify(data []byte, now time.Time) (*Transition, error) {
	t, payload, err := Payload(data)
	if err != nil {
		return nil, err
	}
	signature := data[len(payload):]
	if !t.Signer.Verify(payload, signature) {
		return nil, fault.Errorf(fault.InvalidSignature, "signature does not verify for signer %s", t.Signer)
	}
	if now.Unix() >= t.ExpiresAt {
		return nil, fault.Errorf(fault.Expired, "transition %s expired at %d (now %d)", t.ID, t.ExpiresAt, now.Unix())
	}
	return t, nil
}
