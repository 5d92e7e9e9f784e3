// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockup

import (
	"encoding/binary"

	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/vesting"
)

// Release is one vesting grant.
type Release struct {
	Beneficiary     identity.Identity `cbor:"beneficiary" json:"beneficiary"`
	Nonce           uint64            `cbor:"nonce" json:"nonce"`
	Mint            identity.Identity `cbor:"mint" json:"mint"`
	TotalAmount     uint64            `cbor:"total_amount" json:"total_amount"`
	WithdrawnAmount uint64            `cbor:"withdrawn_amount" json:"withdrawn_amount"`
	StartTS         int64             `cbor:"start_ts" json:"start_ts"`
	EndTS           int64             `cbor:"end_ts" json:"end_ts"`
	Revoked         bool              `cbor:"revoked" json:"revoked"`
	CreatedTS       int64             `cbor:"created_ts" json:"created_ts"`
	RevokedTS       int64             `cbor:"revoked_ts,omitempty" json:"revoked_ts,omitempty"`
}

// ReleaseAddress is the derived address of the release keyed by
// (beneficiary, nonce).
func ReleaseAddress(beneficiary identity.Identity, nonce uint64) state.Address {
	var encodedNonce [8]byte
	binary.BigEndian.PutUint64(encodedNonce[:], nonce)
	return state.Derive(state.ProgramLockup, []byte("release"), beneficiary[:], encodedNonce[:])
}

// Address returns the release's derived address.
func (r *Release) Address() state.Address {
	return ReleaseAddress(r.Beneficiary, r.Nonce)
}

// Minter returns the identity registered on the mint proxy for this
// release.
func (r *Release) Minter() identity.Identity {
	return r.Address().Identity()
}

// Schedule returns the release's vesting schedule.
func (r *Release) Schedule() vesting.Schedule {
	return vesting.Schedule{Total: r.TotalAmount, Start: r.StartTS, End: r.EndTS}
}

// Vested returns the amount vested at now, ignoring revocation.
func (r *Release) Vested(now int64) uint64 {
	return vesting.VestedAmount(r.TotalAmount, r.StartTS, r.EndTS, now)
}

// Available returns what the beneficiary may withdraw at now.
func (r *Release) Available(now int64) uint64 {
	return AvailableForWithdrawal(r, now)
}

// FullyWithdrawn reports whether nothing remains to be issued.
func (r *Release) FullyWithdrawn() bool {
	return r.WithdrawnAmount >= r.TotalAmount
}

// Revoke marks the release revoked at now.
func (r *Release) Revoke(now int64) error {
	if r.Revoked {
		return fault.Errorf(fault.AlreadyRevoked, "release %d for %s was revoked at %d", r.Nonce, r.Beneficiary, r.RevokedTS)
	}
	r.Revoked = true
	r.RevokedTS = now
	return nil
}

// AvailableForWithdrawal returns vested minus withdrawn, or 0 for a
// revoked release. It never underflows.
func AvailableForWithdrawal(release *Release, now int64) uint64 {
	if release.Revoked {
		return 0
	}
	vested := release.Vested(now)
	if vested <= release.WithdrawnAmount {
		return 0
	}
	return vested - release.WithdrawnAmount
}
