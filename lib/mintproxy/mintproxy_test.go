// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mintproxy

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/token"
)

func testIdentity(b byte) identity.Identity {
	var id identity.Identity
	id[0] = b
	id[31] = ^b
	return id
}

var (
	owner       = testIdentity(1)
	minterA     = testIdentity(2)
	minterB     = testIdentity(3)
	stranger    = testIdentity(4)
	destination = testIdentity(5)
	tokenID     = testIdentity(9)
)

func update(store state.Store, fn func(tx state.Tx) error) error {
	return store.Update(context.Background(), fn)
}

// newProxy creates a token minted by owner and a proxy with hardCap.
func newProxy(t *testing.T, hardCap uint64) *state.MemoryStore {
	t.Helper()
	store := state.NewMemoryStore()
	err := update(store, func(tx state.Tx) error {
		if _, err := token.CreateMint(tx, owner, tokenID, 9); err != nil {
			return err
		}
		_, err := Create(tx, owner, owner, tokenID, hardCap)
		return err
	})
	if err != nil {
		t.Fatalf("creating proxy: %v", err)
	}
	return store
}

func TestCreate(t *testing.T) {
	store := newProxy(t, 1000)
	store.View(context.Background(), func(tx state.Tx) error {
		authority, err := GetAuthority(tx, tokenID)
		if err != nil {
			t.Fatalf("GetAuthority: %v", err)
		}
		if authority.HardCap != 1000 || authority.TotalIssued != 0 || authority.Owner != owner {
			t.Errorf("authority = %+v", authority)
		}
		mint, err := token.GetMint(tx, tokenID)
		if err != nil {
			t.Fatalf("GetMint: %v", err)
		}
		if mint.MintAuthority != authority.MintAuthority {
			t.Errorf("token mint authority = %s, want proxy %s", mint.MintAuthority, authority.MintAuthority)
		}
		if mint.MintAuthority == owner {
			t.Error("owner kept the mint authority")
		}
		return nil
	})

	err := update(store, func(tx state.Tx) error {
		_, err := Create(tx, owner, owner, tokenID, 5)
		return err
	})
	if !errors.Is(err, fault.ErrAlreadyInitialized) {
		t.Errorf("second Create = %v, want already_initialized", err)
	}
}

func TestCreateRejections(t *testing.T) {
	store := state.NewMemoryStore()
	update(store, func(tx state.Tx) error {
		_, err := token.CreateMint(tx, owner, tokenID, 9)
		return err
	})

	tests := []struct {
		name    string
		caller  identity.Identity
		hardCap uint64
		want    error
	}{
		{"zero hard cap", owner, 0, fault.ErrInvalidConfig},
		{"caller is not mint authority", stranger, 100, fault.ErrUnauthorized},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := update(store, func(tx state.Tx) error {
				_, err := Create(tx, test.caller, owner, tokenID, test.hardCap)
				return err
			})
			if !errors.Is(err, test.want) {
				t.Fatalf("Create = %v, want %v", err, test.want)
			}
		})
	}

	err := update(store, func(tx state.Tx) error {
		_, err := Create(tx, owner, owner, testIdentity(77), 100)
		return err
	})
	if !errors.Is(err, fault.ErrUnknownToken) {
		t.Fatalf("Create for unknown token = %v, want unknown_token", err)
	}
}

func TestAddMinterOwnerOnly(t *testing.T) {
	store := newProxy(t, 1000)
	err := update(store, func(tx state.Tx) error {
		_, err := AddMinter(tx, stranger, tokenID, minterA, 10)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("AddMinter by stranger = %v, want unauthorized", err)
	}

	err = update(store, func(tx state.Tx) error {
		if _, err := AddMinter(tx, owner, tokenID, minterA, 10); err != nil {
			return err
		}
		// Overwrites.
		_, err := AddMinter(tx, owner, tokenID, minterA, math.MaxUint64)
		return err
	})
	if err != nil {
		t.Fatalf("AddMinter: %v", err)
	}
	store.View(context.Background(), func(tx state.Tx) error {
		minter, err := GetMinter(tx, tokenID, minterA)
		if err != nil || minter.Allowance != math.MaxUint64 {
			t.Errorf("minter = %+v, %v", minter, err)
		}
		return nil
	})
}

func TestIssueCheckOrder(t *testing.T) {
	store := newProxy(t, 100)
	update(store, func(tx state.Tx) error {
		AddMinter(tx, owner, tokenID, minterA, 50)
		_, err := AddMinter(tx, owner, tokenID, minterB, 500)
		return err
	})

	tests := []struct {
		name   string
		minter identity.Identity
		amount uint64
		want   error
	}{
		{"unknown minter beats everything", stranger, 10_000, fault.ErrUnknownMinter},
		{"allowance before cap", minterA, 200, fault.ErrAllowanceExceeded},
		{"cap", minterB, 101, fault.ErrCapExceeded},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := update(store, func(tx state.Tx) error {
				_, err := Issue(tx, test.minter, tokenID, test.amount, destination)
				return err
			})
			if !errors.Is(err, test.want) {
				t.Fatalf("Issue = %v, want %v", err, test.want)
			}
		})
	}
}

func TestIssueEffects(t *testing.T) {
	store := newProxy(t, 100)
	err := update(store, func(tx state.Tx) error {
		if _, err := AddMinter(tx, owner, tokenID, minterA, 30); err != nil {
			return err
		}
		_, err := Issue(tx, minterA, tokenID, 20, destination)
		return err
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	err = update(store, func(tx state.Tx) error {
		_, err := Issue(tx, minterA, tokenID, 20, destination)
		return err
	})
	if !errors.Is(err, fault.ErrAllowanceExceeded) {
		t.Fatalf("second Issue = %v, want allowance_exceeded", err)
	}
	if err.Error() != "allowance_exceeded: amount 20 exceeds minter allowance 10" {
		t.Errorf("message = %q", err.Error())
	}

	store.View(context.Background(), func(tx state.Tx) error {
		authority, _ := GetAuthority(tx, tokenID)
		minter, _ := GetMinter(tx, tokenID, minterA)
		balance, _ := token.Balance(tx, tokenID, destination)
		if authority.TotalIssued != 20 || minter.Allowance != 10 || balance != 20 {
			t.Errorf("issued %d, allowance %d, balance %d; want 20, 10, 20",
				authority.TotalIssued, minter.Allowance, balance)
		}
		return nil
	})
}

func TestCapInvariantUnderRandomIssues(t *testing.T) {
	const hardCap = 10_000
	store := newProxy(t, hardCap)
	minters := []identity.Identity{minterA, minterB, testIdentity(6)}
	update(store, func(tx state.Tx) error {
		for _, minter := range minters {
			if _, err := AddMinter(tx, owner, tokenID, minter, 6_000); err != nil {
				return err
			}
		}
		return nil
	})

	random := rand.New(rand.NewPCG(7, 11))
	var accepted uint64
	for range 500 {
		minter := minters[random.IntN(len(minters))]
		amount := random.Uint64N(400)
		err := update(store, func(tx state.Tx) error {
			_, err := Issue(tx, minter, tokenID, amount, destination)
			return err
		})
		switch {
		case err == nil:
			accepted += amount
		case errors.Is(err, fault.ErrAllowanceExceeded), errors.Is(err, fault.ErrCapExceeded):
		default:
			t.Fatalf("unexpected Issue error: %v", err)
		}
	}

	store.View(context.Background(), func(tx state.Tx) error {
		authority, _ := GetAuthority(tx, tokenID)
		if authority.TotalIssued > authority.HardCap {
			t.Fatalf("total_issued %d exceeds hard_cap %d", authority.TotalIssued, authority.HardCap)
		}
		if authority.TotalIssued != accepted {
			t.Errorf("total_issued %d, accepted issues sum to %d", authority.TotalIssued, accepted)
		}
		mint, _ := token.GetMint(tx, tokenID)
		if mint.Supply != accepted {
			t.Errorf("token supply %d, want %d", mint.Supply, accepted)
		}
		return nil
	})
}

func TestIssueCapOverflowSafe(t *testing.T) {
	store := newProxy(t, math.MaxUint64)
	update(store, func(tx state.Tx) error {
		_, err := AddMinter(tx, owner, tokenID, minterA, math.MaxUint64)
		return err
	})
	err := update(store, func(tx state.Tx) error {
		if _, err := Issue(tx, minterA, tokenID, math.MaxUint64-1, destination); err != nil {
			return err
		}
		_, err := Issue(tx, minterA, tokenID, 2, destination)
		return err
	})
	if !errors.Is(err, fault.ErrAllowanceExceeded) && !errors.Is(err, fault.ErrCapExceeded) {
		t.Fatalf("Issue past uint64 = %v, want a rejection", err)
	}
}

func TestRemoveAndZeroAllowance(t *testing.T) {
	store := newProxy(t, 1000)
	update(store, func(tx state.Tx) error {
		_, err := AddMinter(tx, owner, tokenID, minterA, 100)
		return err
	})

	err := update(store, func(tx state.Tx) error {
		_, err := ZeroAllowance(tx, stranger, tokenID, minterA)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("ZeroAllowance by stranger = %v", err)
	}

	update(store, func(tx state.Tx) error {
		_, err := ZeroAllowance(tx, owner, tokenID, minterA)
		return err
	})
	err = update(store, func(tx state.Tx) error {
		_, err := Issue(tx, minterA, tokenID, 1, destination)
		return err
	})
	if !errors.Is(err, fault.ErrAllowanceExceeded) {
		t.Fatalf("Issue after ZeroAllowance = %v, want allowance_exceeded", err)
	}

	if err := update(store, func(tx state.Tx) error {
		return RemoveMinter(tx, owner, tokenID, minterA)
	}); err != nil {
		t.Fatalf("RemoveMinter: %v", err)
	}
	err = update(store, func(tx state.Tx) error {
		return RemoveMinter(tx, owner, tokenID, minterA)
	})
	if !errors.Is(err, fault.ErrUnknownMinter) {
		t.Fatalf("second RemoveMinter = %v, want unknown_minter", err)
	}
	store.View(context.Background(), func(tx state.Tx) error {
		minters, err := Minters(tx, tokenID)
		if err != nil || len(minters) != 0 {
			t.Errorf("Minters = %v, %v; want empty", minters, err)
		}
		return nil
	})
}

func TestOwnershipHandover(t *testing.T) {
	store := newProxy(t, 1000)
	next := testIdentity(8)

	err := update(store, func(tx state.Tx) error {
		if _, err := TransferOwnership(tx, owner, tokenID, next); err != nil {
			return err
		}
		_, err := AcceptOwnership(tx, next, tokenID)
		return err
	})
	if err != nil {
		t.Fatalf("handover: %v", err)
	}

	err = update(store, func(tx state.Tx) error {
		_, err := AddMinter(tx, owner, tokenID, minterA, 1)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("old owner AddMinter = %v, want unauthorized", err)
	}

	err = update(store, func(tx state.Tx) error {
		_, err := AcceptOwnership(tx, next, tokenID)
		return err
	})
	if !errors.Is(err, fault.ErrNoPendingTransfer) {
		t.Fatalf("double accept = %v, want no_pending_transfer", err)
	}
}

func TestReleaseMinterRegistrar(t *testing.T) {
	store := newProxy(t, 1000)
	registrar := testIdentity(7)

	err := update(store, func(tx state.Tx) error {
		_, err := RegisterReleaseMinter(tx, registrar, tokenID, minterA, 10)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("RegisterReleaseMinter before binding = %v, want unauthorized", err)
	}

	err = update(store, func(tx state.Tx) error {
		_, err := BindRegistrar(tx, stranger, tokenID, registrar)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("BindRegistrar by stranger = %v, want unauthorized", err)
	}
	if err := update(store, func(tx state.Tx) error {
		_, err := BindRegistrar(tx, owner, tokenID, registrar)
		return err
	}); err != nil {
		t.Fatalf("BindRegistrar: %v", err)
	}
	err = update(store, func(tx state.Tx) error {
		_, err := BindRegistrar(tx, owner, tokenID, stranger)
		return err
	})
	if !errors.Is(err, fault.ErrAlreadyInitialized) {
		t.Fatalf("second BindRegistrar = %v, want already_initialized", err)
	}

	// Moving the proxy to a new owner does not revoke the registrar.
	if err := update(store, func(tx state.Tx) error {
		if _, err := TransferOwnership(tx, owner, tokenID, minterB); err != nil {
			return err
		}
		_, err := AcceptOwnership(tx, minterB, tokenID)
		return err
	}); err != nil {
		t.Fatalf("proxy handover: %v", err)
	}

	err = update(store, func(tx state.Tx) error {
		_, err := RegisterReleaseMinter(tx, stranger, tokenID, minterA, 10)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("RegisterReleaseMinter by stranger = %v, want unauthorized", err)
	}
	if err := update(store, func(tx state.Tx) error {
		_, err := RegisterReleaseMinter(tx, registrar, tokenID, minterA, 10)
		return err
	}); err != nil {
		t.Fatalf("RegisterReleaseMinter: %v", err)
	}
	if err := update(store, func(tx state.Tx) error {
		_, err := Issue(tx, minterA, tokenID, 4, destination)
		return err
	}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	err = update(store, func(tx state.Tx) error {
		_, err := RevokeReleaseMinter(tx, owner, tokenID, minterA)
		return err
	})
	if !errors.Is(err, fault.ErrUnauthorized) {
		t.Fatalf("RevokeReleaseMinter by former owner = %v, want unauthorized", err)
	}
	if err := update(store, func(tx state.Tx) error {
		record, err := RevokeReleaseMinter(tx, registrar, tokenID, minterA)
		if err != nil {
			return err
		}
		if record.Allowance != 0 {
			t.Errorf("allowance after revoke = %d, want 0", record.Allowance)
		}
		return nil
	}); err != nil {
		t.Fatalf("RevokeReleaseMinter: %v", err)
	}
	err = update(store, func(tx state.Tx) error {
		_, err := RevokeReleaseMinter(tx, registrar, tokenID, minterB)
		return err
	})
	if !errors.Is(err, fault.ErrUnknownMinter) {
		t.Fatalf("RevokeReleaseMinter of unknown minter = %v, want unknown_minter", err)
	}
}
