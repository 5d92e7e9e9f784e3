// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simulate

import (
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/lockup/lib/identity"
)

// actorDomain separates actor seeds from every other BLAKE3 use.
const actorDomain = "lockup.simulate.actor\x00"

// ActorKeypair returns the deterministic keypair for an actor name.
func ActorKeypair(name string) (*identity.Keypair, error) {
	if name == "" {
		return nil, fmt.Errorf("simulate: empty actor name")
	}
	seed := blake3.Sum256([]byte(actorDomain + name))
	return identity.FromSeed(seed[:])
}

// actors caches keypairs by name and remembers which names a run used.
type actors struct {
	keypairs map[string]*identity.Keypair
}

func newActors() *actors {
	return &actors{keypairs: make(map[string]*identity.Keypair)}
}

func (a *actors) keypair(name string) (*identity.Keypair, error) {
	if keypair, ok := a.keypairs[name]; ok {
		return keypair, nil
	}
	keypair, err := ActorKeypair(name)
	if err != nil {
		return nil, err
	}
	a.keypairs[name] = keypair
	return keypair, nil
}

func (a *actors) identity(name string) (identity.Identity, error) {
	keypair, err := a.keypair(name)
	if err != nil {
		return identity.Identity{}, err
	}
	return keypair.Identity, nil
}

// identities returns every actor used so far, keyed by name.
func (a *actors) identities() map[string]identity.Identity {
	result := make(map[string]identity.Identity, len(a.keypairs))
	for name, keypair := range a.keypairs {
		result[name] = keypair.Identity
	}
	return result
}
