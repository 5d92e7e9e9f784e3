// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockup

import (
	"errors"
	"testing"

	"github.com/bureau-foundation/lockup/lib/fault"
)

func TestAvailableForWithdrawal(t *testing.T) {
	release := &Release{TotalAmount: 1000, StartTS: 0, EndTS: 100}

	if got := AvailableForWithdrawal(release, 50); got != 500 {
		t.Errorf("available at 50 = %d, want 500", got)
	}
	release.WithdrawnAmount = 500
	if got := AvailableForWithdrawal(release, 50); got != 0 {
		t.Errorf("available after withdrawing vested = %d, want 0", got)
	}
	if got := AvailableForWithdrawal(release, 100); got != 500 {
		t.Errorf("available at end = %d, want 500", got)
	}
	release.Revoked = true
	if got := AvailableForWithdrawal(release, 100); got != 0 {
		t.Errorf("available when revoked = %d, want 0", got)
	}
}

func TestReleaseRevokeIsOneWay(t *testing.T) {
	release := &Release{}
	if err := release.Revoke(10); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := release.Revoke(20); !errors.Is(err, fault.ErrAlreadyRevoked) {
		t.Fatalf("second Revoke = %v, want AlreadyRevoked", err)
	}
	if release.RevokedTS != 10 {
		t.Errorf("RevokedTS = %d, want 10", release.RevokedTS)
	}
}

func TestReleaseAddressDependsOnKey(t *testing.T) {
	a := ReleaseAddress(beneficiary, 0)
	if a != ReleaseAddress(beneficiary, 0) {
		t.Fatal("ReleaseAddress not deterministic")
	}
	if a == ReleaseAddress(beneficiary, 1) {
		t.Error("nonce does not change the address")
	}
	if a == ReleaseAddress(stranger, 0) {
		t.Error("beneficiary does not change the address")
	}
	release := &Release{Beneficiary: beneficiary}
	if release.Minter() != a.Identity() {
		t.Error("Minter is not the release address")
	}
}
