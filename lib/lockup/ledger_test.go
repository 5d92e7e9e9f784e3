// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bureau-foundation/lockup/lib/clock"
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/token"
)

const billion = 1_000_000_000

func testIdentity(b byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = b ^ byte(i)
	}
	return id
}

var (
	owner       = testIdentity(1)
	beneficiary = testIdentity(2)
	stranger    = testIdentity(3)
	nextOwner   = testIdentity(4)
	tokenID     = testIdentity(9)
)

type fixture struct {
	t     *testing.T
	store *state.MemoryStore
	clock *clock.FakeClock
}

// newFixture sets up a token, a mint proxy with a 1,000,000-token cap
// owned by owner, and an initialized ledger.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:     t,
		store: state.NewMemoryStore(),
		clock: clock.Fake(time.Unix(1_700_000_000, 0)),
	}
	err := f.update(func(tx state.Tx, now int64) error {
		if _, err := token.CreateMint(tx, owner, tokenID, 9); err != nil {
			return err
		}
		if _, err := mintproxy.Create(tx, owner, owner, tokenID, 1_000_000*billion); err != nil {
			return err
		}
		_, err := Initialize(tx, owner, tokenID, now)
		return err
	})
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return f
}

func (f *fixture) now() int64 { return clock.Unix(f.clock) }

func (f *fixture) update(fn func(tx state.Tx, now int64) error) error {
	now := f.now()
	return f.store.Update(context.Background(), func(tx state.Tx) error {
		return fn(tx, now)
	})
}

func (f *fixture) view(fn func(tx state.Tx, now int64)) {
	f.t.Helper()
	now := f.now()
	if err := f.store.View(context.Background(), func(tx state.Tx) error {
		fn(tx, now)
		return nil
	}); err != nil {
		f.t.Fatalf("View: %v", err)
	}
}

func (f *fixture) createRelease(amount uint64, duration time.Duration) *Release {
	f.t.Helper()
	var release *Release
	err := f.update(func(tx state.Tx, now int64) error {
		var err error
		release, err = CreateRelease(tx, owner, CreateParams{
			Beneficiary: beneficiary,
			Mint:        tokenID,
			Amount:      amount,
			StartTS:     now,
			EndTS:       now + int64(duration/time.Second),
		}, now)
		return err
	})
	if err != nil {
		f.t.Fatalf("CreateRelease: %v", err)
	}
	return release
}

func (f *fixture) withdraw(caller identity.Identity, amount *uint64) (*Withdrawal, error) {
	var receipt *Withdrawal
	err := f.update(func(tx state.Tx, now int64) error {
		var err error
		receipt, err = Withdraw(tx, caller, WithdrawParams{Beneficiary: beneficiary, Amount: amount}, now)
		return err
	})
	return receipt, err
}

func (f *fixture) revoke(caller identity.Identity) (*Revocation, error) {
	var receipt *Revocation
	err := f.update(func(tx state.Tx, now int64) error {
		var err error
		receipt, err = RevokeRelease(tx, caller, RevokeParams{Beneficiary: beneficiary}, now)
		return err
	})
	return receipt, err
}

func amount(v uint64) *uint64 { return &v }

func TestWithdrawScenario(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(1000*billion, 20*time.Second)
	if release.WithdrawnAmount != 0 || release.Revoked {
		t.Fatalf("new release = %+v", release)
	}

	// Nothing has vested at start_ts: withdraw-all is a zero receipt.
	receipt, err := f.withdraw(beneficiary, nil)
	if err != nil {
		t.Fatalf("withdraw at start: %v", err)
	}
	if receipt.Amount != 0 {
		t.Fatalf("withdraw at start issued %d, want 0", receipt.Amount)
	}

	f.clock.Advance(21 * time.Second)
	receipt, err = f.withdraw(beneficiary, nil)
	if err != nil {
		t.Fatalf("withdraw after end: %v", err)
	}
	if receipt.Amount != 1000*billion {
		t.Fatalf("withdraw after end issued %d, want %d", receipt.Amount, uint64(1000*billion))
	}

	receipt, err = f.withdraw(beneficiary, nil)
	if err != nil {
		t.Fatalf("second withdraw: %v", err)
	}
	if receipt.Amount != 0 {
		t.Fatalf("second withdraw issued %d, want 0", receipt.Amount)
	}

	f.view(func(tx state.Tx, now int64) {
		available, err := Available(tx, beneficiary, 0, now)
		if err != nil || available != 0 {
			t.Errorf("Available = %d, %v; want 0", available, err)
		}
		balance, _ := token.Balance(tx, tokenID, beneficiary)
		if balance != 1000*billion {
			t.Errorf("beneficiary balance = %d", balance)
		}
		authority, _ := mintproxy.GetAuthority(tx, tokenID)
		if authority.TotalIssued != 1000*billion {
			t.Errorf("total_issued = %d", authority.TotalIssued)
		}
	})
}

func TestWithdrawExplicitAmount(t *testing.T) {
	f := newFixture(t)
	f.createRelease(1000*billion, 20*time.Second)
	f.clock.Advance(10 * time.Second)

	// 500e9 vested.
	if _, err := f.withdraw(beneficiary, amount(10*billion)); err != nil {
		t.Fatalf("withdraw 10e9: %v", err)
	}
	_, err := f.withdraw(beneficiary, amount(491*billion))
	if !errors.Is(err, fault.ErrInsufficientVested) {
		t.Fatalf("withdraw beyond vested = %v, want insufficient_vested", err)
	}
	if !fault.KindOf(err).Retryable() {
		t.Error("insufficient_vested should be retryable")
	}
	receipt, err := f.withdraw(beneficiary, nil)
	if err != nil {
		t.Fatalf("withdraw rest: %v", err)
	}
	if receipt.Amount != 490*billion {
		t.Fatalf("withdraw rest issued %d, want 490e9", receipt.Amount)
	}
	if receipt.Release.WithdrawnAmount != receipt.Release.Vested(f.now()) {
		t.Error("withdrawn != vested after withdraw-all")
	}
}

func TestWithdrawnNeverExceedsVested(t *testing.T) {
	f := newFixture(t)
	f.createRelease(777*billion, 100*time.Second)

	for step := range 120 {
		f.clock.Advance(time.Second)
		request := uint64(step%7) * billion
		_, err := f.withdraw(beneficiary, &request)
		if err != nil && !errors.Is(err, fault.ErrInsufficientVested) {
			t.Fatalf("step %d: %v", step, err)
		}
		f.view(func(tx state.Tx, now int64) {
			release, _ := GetRelease(tx, beneficiary, 0)
			if release.WithdrawnAmount > release.TotalAmount {
				t.Fatalf("withdrawn %d > total %d", release.WithdrawnAmount, release.TotalAmount)
			}
			if release.WithdrawnAmount > release.Vested(now) {
				t.Fatalf("withdrawn %d > vested %d", release.WithdrawnAmount, release.Vested(now))
			}
		})
	}
}

func TestWithdrawByNonBeneficiary(t *testing.T) {
	f := newFixture(t)
	f.createRelease(100, 10*time.Second)
	f.clock.Advance(time.Minute)
	if _, err := f.withdraw(stranger, nil); !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("withdraw by stranger = %v, want unauthorized", err)
	}
	if _, err := f.withdraw(owner, nil); !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("withdraw by owner = %v, want unauthorized", err)
	}
}

func TestCreateReleaseValidation(t *testing.T) {
	f := newFixture(t)
	now := f.now()
	tests := []struct {
		name   string
		caller identity.Identity
		params CreateParams
		want   error
	}{
		{"non-owner", stranger, CreateParams{Beneficiary: beneficiary, Mint: tokenID, Amount: 1, StartTS: now, EndTS: now + 1}, fault.ErrUnauthorized},
		{"zero amount", owner, CreateParams{Beneficiary: beneficiary, Mint: tokenID, Amount: 0, StartTS: now, EndTS: now + 1}, fault.ErrInvalidConfig},
		{"end equals start", owner, CreateParams{Beneficiary: beneficiary, Mint: tokenID, Amount: 1, StartTS: now, EndTS: now}, fault.ErrInvalidConfig},
		{"end before start", owner, CreateParams{Beneficiary: beneficiary, Mint: tokenID, Amount: 1, StartTS: now, EndTS: now - 5}, fault.ErrInvalidConfig},
		{"wrong mint", owner, CreateParams{Beneficiary: beneficiary, Mint: stranger, Amount: 1, StartTS: now, EndTS: now + 1}, fault.ErrInvalidConfig},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := f.update(func(tx state.Tx, now int64) error {
				_, err := CreateRelease(tx, test.caller, test.params, now)
				return err
			})
			if !errors.Is(err, test.want) {
				t.Fatalf("CreateRelease = %v, want %v", err, test.want)
			}
		})
	}
}

func TestCreateReleaseRegistersMinter(t *testing.T) {
	f := newFixture(t)
	release := f.createRelease(500, time.Minute)
	f.view(func(tx state.Tx, _ int64) {
		minter, err := mintproxy.GetMinter(tx, tokenID, release.Minter())
		if err != nil {
			t.Fatalf("GetMinter: %v", err)
		}
		if minter.Allowance != 500 {
			t.Errorf("allowance = %d, want 500", minter.Allowance)
		}
	})
}

func TestDuplicateRelease(t *testing.T) {
	f := newFixture(t)
	f.createRelease(500, time.Minute)

	err := f.update(func(tx state.Tx, now int64) error {
		_, err := CreateRelease(tx, owner, CreateParams{
			Beneficiary: beneficiary, Mint: tokenID, Amount: 1, StartTS: now, EndTS: now + 60,
		}, now)
		return err
	})
	if !errors.Is(err, fault.ErrDuplicateRelease) {
		t.Fatalf("duplicate CreateRelease = %v, want duplicate_release", err)
	}

	// A second nonce is a separate release.
	err = f.update(func(tx state.Tx, now int64) error {
		_, err := CreateRelease(tx, owner, CreateParams{
			Beneficiary: beneficiary, Nonce: 1, Mint: tokenID, Amount: 1, StartTS: now, EndTS: now + 60,
		}, now)
		return err
	})
	if err != nil {
		t.Fatalf("CreateRelease nonce 1: %v", err)
	}

	// A revoked release may be replaced.
	if _, err := f.revoke(owner); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	replacement := f.createRelease(900, time.Minute)
	if replacement.Revoked || replacement.TotalAmount != 900 {
		t.Errorf("replacement = %+v", replacement)
	}
	f.view(func(tx state.Tx, _ int64) {
		releases, err := Releases(tx)
		if err != nil || len(releases) != 2 {
			t.Errorf("Releases = %d entries, %v; want 2", len(releases), err)
		}
	})
}

func TestProxyHandoverKeepsLedgerWorking(t *testing.T) {
	f := newFixture(t)
	err := f.update(func(tx state.Tx, _ int64) error {
		if _, err := mintproxy.TransferOwnership(tx, owner, tokenID, nextOwner); err != nil {
			return err
		}
		_, err := mintproxy.AcceptOwnership(tx, nextOwner, tokenID)
		return err
	})
	if err != nil {
		t.Fatalf("proxy handover: %v", err)
	}

	release := f.createRelease(5*billion, 5*time.Second)
	if _, err := f.revoke(owner); err != nil {
		t.Fatalf("RevokeRelease after proxy handover: %v", err)
	}
	f.view(func(tx state.Tx, _ int64) {
		minter, err := mintproxy.GetMinter(tx, tokenID, release.Minter())
		if err != nil {
			t.Fatalf("GetMinter: %v", err)
		}
		if minter.Allowance != 0 {
			t.Errorf("allowance after revoke = %d, want 0", minter.Allowance)
		}
	})
}

func TestInitializeRequiresProxyOwner(t *testing.T) {
	store := state.NewMemoryStore()
	err := store.Update(context.Background(), func(tx state.Tx) error {
		if _, err := token.CreateMint(tx, owner, tokenID, 9); err != nil {
			return err
		}
		_, err := mintproxy.Create(tx, owner, owner, tokenID, 1000)
		return err
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	err = store.Update(context.Background(), func(tx state.Tx) error {
		_, err := Initialize(tx, stranger, tokenID, 0)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("Initialize by stranger = %v, want unauthorized", err)
	}
	err = store.View(context.Background(), func(tx state.Tx) error {
		if _, err := GetAdmin(tx); !errors.Is(err, fault.ErrNotInitialized) {
			t.Errorf("GetAdmin = %v, want not_initialized", err)
		}
		authority, err := mintproxy.GetAuthority(tx, tokenID)
		if err != nil {
			return err
		}
		if !authority.Registrar.IsZero() {
			t.Errorf("registrar bound by a failed Initialize: %s", authority.Registrar)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View: %v", err)
	}
}

func TestRevokePolicy(t *testing.T) {
	t.Run("partially vested", func(t *testing.T) {
		f := newFixture(t)
		release := f.createRelease(1000, 100*time.Second)
		f.clock.Advance(50 * time.Second)
		f.withdraw(beneficiary, amount(100))

		receipt, err := f.revoke(owner)
		if err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if !receipt.Release.Revoked || receipt.AlreadyRevoked || receipt.Release.RevokedTS != f.now() {
			t.Fatalf("receipt = %+v", receipt)
		}

		f.clock.Advance(time.Hour)
		if _, err := f.withdraw(beneficiary, nil); !errors.Is(err, fault.ErrRevoked) {
			t.Fatalf("withdraw after revoke = %v, want revoked", err)
		}

		f.view(func(tx state.Tx, now int64) {
			// Withdrawn tokens stay with the beneficiary.
			balance, _ := token.Balance(tx, tokenID, beneficiary)
			if balance != 100 {
				t.Errorf("balance = %d, want 100", balance)
			}
			if available, _ := Available(tx, beneficiary, 0, now); available != 0 {
				t.Errorf("available after revoke = %d", available)
			}
			minter, _ := mintproxy.GetMinter(tx, tokenID, release.Minter())
			if minter.Allowance != 0 {
				t.Errorf("allowance after revoke = %d, want 0", minter.Allowance)
			}
		})

		// The minter itself cannot issue either.
		err = f.update(func(tx state.Tx, _ int64) error {
			_, err := mintproxy.Issue(tx, release.Minter(), tokenID, 1, beneficiary)
			return err
		})
		if !errors.Is(err, fault.ErrAllowanceExceeded) {
			t.Fatalf("Issue through revoked minter = %v, want allowance_exceeded", err)
		}
	})

	t.Run("already revoked is idempotent", func(t *testing.T) {
		f := newFixture(t)
		f.createRelease(1000, 100*time.Second)
		first, err := f.revoke(owner)
		if err != nil {
			t.Fatalf("first revoke: %v", err)
		}
		f.clock.Advance(time.Minute)
		second, err := f.revoke(owner)
		if err != nil {
			t.Fatalf("second revoke: %v", err)
		}
		if !second.AlreadyRevoked {
			t.Error("second revoke not marked AlreadyRevoked")
		}
		if second.Release.RevokedTS != first.Release.RevokedTS {
			t.Errorf("second revoke moved revoked_ts from %d to %d", first.Release.RevokedTS, second.Release.RevokedTS)
		}
	})

	t.Run("fully withdrawn", func(t *testing.T) {
		f := newFixture(t)
		f.createRelease(1000*billion, 20*time.Second)
		f.clock.Advance(30 * time.Second)
		if _, err := f.withdraw(beneficiary, nil); err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		if _, err := f.revoke(owner); !errors.Is(err, fault.ErrNothingToRevoke) {
			t.Fatalf("revoke after full claim = %v, want nothing_to_revoke", err)
		}
	})

	t.Run("non-owner", func(t *testing.T) {
		f := newFixture(t)
		f.createRelease(1000, time.Minute)
		if _, err := f.revoke(beneficiary); !errors.Is(err, fault.ErrUnauthorized) {
			t.Fatalf("revoke by beneficiary = %v, want unauthorized", err)
		}
	})
}

func TestConditionalWithdraw(t *testing.T) {
	f := newFixture(t)
	f.createRelease(1000, 10*time.Second)
	f.clock.Advance(5 * time.Second)

	err := f.update(func(tx state.Tx, now int64) error {
		_, err := Withdraw(tx, beneficiary, WithdrawParams{Beneficiary: beneficiary, IfVersion: 7}, now)
		return err
	})
	if !errors.Is(err, fault.ErrConflict) {
		t.Fatalf("Withdraw with stale version = %v, want conflict", err)
	}
	err = f.update(func(tx state.Tx, now int64) error {
		_, err := Withdraw(tx, beneficiary, WithdrawParams{Beneficiary: beneficiary, IfVersion: 1}, now)
		return err
	})
	if err != nil {
		t.Fatalf("Withdraw with current version: %v", err)
	}
}

func TestOwnershipHandover(t *testing.T) {
	f := newFixture(t)
	f.createRelease(100*billion, 100*time.Second)

	err := f.update(func(tx state.Tx, _ int64) error {
		if _, err := TransferOwnership(tx, owner, nextOwner); err != nil {
			return err
		}
		admin, err := AcceptOwnership(tx, nextOwner)
		if err != nil {
			return err
		}
		if admin.Owner != nextOwner || admin.PendingOwner != nil {
			t.Errorf("admin after accept = %+v", admin)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}

	err = f.update(func(tx state.Tx, _ int64) error {
		_, err := TransferOwnership(tx, owner, stranger)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("old owner transfer = %v, want unauthorized", err)
	}

	err = f.update(func(tx state.Tx, _ int64) error {
		_, err := AcceptOwnership(tx, nextOwner)
		return err
	})
	if !errors.Is(err, fault.ErrNoPendingTransfer) {
		t.Fatalf("double accept = %v, want no_pending_transfer", err)
	}

	if _, err := f.revoke(owner); !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("old owner RevokeRelease = %v, want unauthorized", err)
	}
	err = f.update(func(tx state.Tx, now int64) error {
		_, err := CreateRelease(tx, owner, CreateParams{
			Beneficiary: beneficiary, Nonce: 1, Mint: tokenID, Amount: 1, StartTS: now, EndTS: now + 1,
		}, now)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("old owner CreateRelease = %v, want unauthorized", err)
	}

	// The proxy still belongs to the old owner; the new ledger owner
	// manages releases through the ledger's registrar binding.
	revocation, err := f.revoke(nextOwner)
	if err != nil {
		t.Fatalf("new owner RevokeRelease: %v", err)
	}
	if !revocation.Release.Revoked || revocation.AlreadyRevoked {
		t.Errorf("revocation = %+v", revocation)
	}
	err = f.update(func(tx state.Tx, now int64) error {
		_, err := CreateRelease(tx, nextOwner, CreateParams{
			Beneficiary: beneficiary, Nonce: 1, Mint: tokenID, Amount: 7 * billion, StartTS: now, EndTS: now + 7,
		}, now)
		return err
	})
	if err != nil {
		t.Fatalf("new owner CreateRelease: %v", err)
	}

	f.view(func(tx state.Tx, _ int64) {
		revoked, err := mintproxy.GetMinter(tx, tokenID, ReleaseAddress(beneficiary, 0).Identity())
		if err != nil {
			t.Fatalf("GetMinter(nonce 0): %v", err)
		}
		if revoked.Allowance != 0 {
			t.Errorf("revoked minter allowance = %d, want 0", revoked.Allowance)
		}
		created, err := mintproxy.GetMinter(tx, tokenID, ReleaseAddress(beneficiary, 1).Identity())
		if err != nil {
			t.Fatalf("GetMinter(nonce 1): %v", err)
		}
		if created.Allowance != 7*billion {
			t.Errorf("new minter allowance = %d, want %d", created.Allowance, 7*billion)
		}
	})
}

func TestCancelOwnershipTransfer(t *testing.T) {
	f := newFixture(t)
	err := f.update(func(tx state.Tx, _ int64) error {
		if _, err := CancelOwnershipTransfer(tx, owner); !errors.Is(err, fault.ErrNoPendingTransfer) {
			t.Errorf("cancel with nothing pending = %v", err)
		}
		if _, err := TransferOwnership(tx, owner, nextOwner); err != nil {
			return err
		}
		if _, err := CancelOwnershipTransfer(tx, owner); err != nil {
			return err
		}
		_, err := AcceptOwnership(tx, nextOwner)
		if !errors.Is(err, fault.ErrNoPendingTransfer) {
			t.Errorf("accept after cancel = %v, want no_pending_transfer", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)
	err := f.update(func(tx state.Tx, now int64) error {
		_, err := Initialize(tx, stranger, tokenID, now)
		return err
	})
	if !errors.Is(err, fault.ErrAlreadyInitialized) {
		t.Fatalf("second Initialize = %v, want already_initialized", err)
	}

	empty := state.NewMemoryStore()
	err = empty.Update(context.Background(), func(tx state.Tx) error {
		_, err := Initialize(tx, owner, tokenID, 0)
		return err
	})
	if !errors.Is(err, fault.ErrNotInitialized) {
		t.Fatalf("Initialize without a proxy = %v, want not_initialized", err)
	}
	err = empty.View(context.Background(), func(tx state.Tx) error {
		_, err := GetAdmin(tx)
		return err
	})
	if !errors.Is(err, fault.ErrNotInitialized) {
		t.Fatalf("GetAdmin on empty store = %v, want not_initialized", err)
	}
}
