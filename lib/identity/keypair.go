// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Keypair is an identity together with its private key.
type Keypair struct {
	Identity Identity
	private  ed25519.PrivateKey
}

// Generate creates a new keypair from crypto/rand.
func Generate() (*Keypair, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("identity: generating Ed25519 keypair: %w", err)
	}
	id, err := FromPublicKey(public)
	if err != nil {
		return nil, err
	}
	return &Keypair{Identity: id, private: private}, nil
}

// FromSeed derives a keypair deterministically from a 32-byte seed.
// Tests and simulation scenarios use it to name actors reproducibly.
func FromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("identity: seed has %d bytes, want %d", len(seed), ed25519.SeedSize)
	}
	private := ed25519.NewKeyFromSeed(seed)
	id, err := FromPublicKey(private.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{Identity: id, private: private}, nil
}

// FromPrivateKey wraps an existing 64-byte Ed25519 private key.
func FromPrivateKey(private ed25519.PrivateKey) (*Keypair, error) {
	if len(private) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("identity: private key has %d bytes, want %d", len(private), ed25519.PrivateKeySize)
	}
	id, err := FromPublicKey(private.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{Identity: id, private: private}, nil
}

// Sign returns the Ed25519 signature over message.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.private, message)
}
