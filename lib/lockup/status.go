// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockup

import (
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/state"
)

// Status is a release evaluated at one instant. Version is the release
// record's store version, for conditional withdraw and revoke.
type Status struct {
	Release   Release       `cbor:"release" json:"release"`
	Address   state.Address `cbor:"address" json:"address"`
	Version   uint64        `cbor:"version" json:"version"`
	Now       int64         `cbor:"now" json:"now"`
	Vested    uint64        `cbor:"vested" json:"vested"`
	Available uint64        `cbor:"available" json:"available"`
}

// Fraction is the vested share of the total in [0, 1].
func (s *Status) Fraction() float64 {
	return s.Release.Schedule().Fraction(s.Now)
}

// Finished reports whether the release will never issue more: revoked
// or fully withdrawn.
func (s *Status) Finished() bool {
	return s.Release.Revoked || s.Release.FullyWithdrawn()
}

// StatusAt loads the release keyed by (beneficiary, nonce) and
// evaluates it at now.
func StatusAt(tx state.Tx, beneficiary identity.Identity, nonce uint64, now int64) (*Status, error) {
	release, err := GetRelease(tx, beneficiary, nonce)
	if err != nil {
		return nil, err
	}
	address := release.Address()
	version, err := tx.Version(state.ProgramLockup, address)
	if err != nil {
		return nil, err
	}
	return &Status{
		Release:   *release,
		Address:   address,
		Version:   version,
		Now:       now,
		Vested:    release.Vested(now),
		Available: release.Available(now),
	}, nil
}
