// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockup

import (
	"errors"

	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/ownership"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/vesting"
)

// Record kinds.
const (
	KindAdmin   = "admin"
	KindRelease = "release"
)

// Admin is the ledger's administrative record.
type Admin struct {
	ownership.Control

	// Token identifies the mint proxy every release issues through.
	Token identity.Identity `cbor:"token" json:"token"`

	CreatedTS int64 `cbor:"created_ts" json:"created_ts"`
}

// AdminAddress is the address of the singleton Admin record.
func AdminAddress() state.Address {
	return state.Derive(state.ProgramLockup, []byte("admin"))
}

// RegistrarIdentity is the identity the ledger acts as on the mint
// proxy. Nobody can sign for it.
func RegistrarIdentity() identity.Identity {
	return state.Derive(state.ProgramLockup, []byte("registrar")).Identity()
}

// Initialize creates the ledger, owned by caller and bound to the mint
// proxy of tokenID. caller must own the proxy.
func Initialize(tx state.Tx, caller, tokenID identity.Identity, now int64) (*Admin, error) {
	var existing Admin
	found, err := tx.Get(state.ProgramLockup, AdminAddress(), &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fault.Errorf(fault.AlreadyInitialized, "ledger already initialized by %s", existing.Owner)
	}
	if _, err := mintproxy.BindRegistrar(tx, caller, tokenID, RegistrarIdentity()); err != nil {
		return nil, err
	}

	admin := &Admin{Control: ownership.New(caller), Token: tokenID, CreatedTS: now}
	if err := tx.Put(state.ProgramLockup, AdminAddress(), KindAdmin, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// GetAdmin loads the Admin record. Fails NotInitialized before
// Initialize.
func GetAdmin(tx state.Tx) (*Admin, error) {
	var admin Admin
	found, err := tx.Get(state.ProgramLockup, AdminAddress(), &admin)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fault.Errorf(fault.NotInitialized, "ledger is not initialized")
	}
	return &admin, nil
}

// CreateParams describes a new release.
type CreateParams struct {
	Beneficiary identity.Identity
	Nonce       uint64
	Mint        identity.Identity
	Amount      uint64
	StartTS     int64
	EndTS       int64
}

// CreateRelease records a release and registers its minter on the
// mint proxy with allowance equal to the amount. A revoked release
// under the same key is replaced; a live one fails DuplicateRelease.
func CreateRelease(tx state.Tx, caller identity.Identity, params CreateParams, now int64) (*Release, error) {
	admin, err := GetAdmin(tx)
	if err != nil {
		return nil, err
	}
	if err := admin.Require(caller, "create_release"); err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, fault.Errorf(fault.InvalidConfig, "release amount must be positive")
	}
	if err := vesting.Validate(params.StartTS, params.EndTS); err != nil {
		return nil, err
	}
	if params.Beneficiary.IsZero() {
		return nil, fault.Errorf(fault.InvalidConfig, "beneficiary identity is zero")
	}
	if params.Mint != admin.Token {
		return nil, fault.Errorf(fault.InvalidConfig, "mint %s is not the ledger's token %s", params.Mint, admin.Token)
	}

	address := ReleaseAddress(params.Beneficiary, params.Nonce)
	var existing Release
	found, err := tx.Get(state.ProgramLockup, address, &existing)
	if err != nil {
		return nil, err
	}
	if found && !existing.Revoked {
		return nil, fault.Errorf(fault.DuplicateRelease, "release %d for %s already exists", params.Nonce, params.Beneficiary)
	}

	release := &Release{
		Beneficiary: params.Beneficiary,
		Nonce:       params.Nonce,
		Mint:        params.Mint,
		TotalAmount: params.Amount,
		StartTS:     params.StartTS,
		EndTS:       params.EndTS,
		CreatedTS:   now,
	}
	if _, err := mintproxy.RegisterReleaseMinter(tx, RegistrarIdentity(), admin.Token, release.Minter(), params.Amount); err != nil {
		return nil, err
	}
	if err := tx.Put(state.ProgramLockup, address, KindRelease, release); err != nil {
		return nil, err
	}
	return release, nil
}

// GetRelease loads the release keyed by (beneficiary, nonce). Fails
// UnknownRelease if absent.
func GetRelease(tx state.Tx, beneficiary identity.Identity, nonce uint64) (*Release, error) {
	var release Release
	found, err := tx.Get(state.ProgramLockup, ReleaseAddress(beneficiary, nonce), &release)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fault.Errorf(fault.UnknownRelease, "no release %d for %s", nonce, beneficiary)
	}
	return &release, nil
}

// Releases returns every release in address order.
func Releases(tx state.Tx) ([]Release, error) {
	var releases []Release
	err := tx.List(state.ProgramLockup, KindRelease, func(entry state.Entry) error {
		var release Release
		if err := entry.Decode(&release); err != nil {
			return err
		}
		releases = append(releases, release)
		return nil
	})
	return releases, err
}

// Available returns AvailableForWithdrawal for a stored release.
func Available(tx state.Tx, beneficiary identity.Identity, nonce uint64, now int64) (uint64, error) {
	release, err := GetRelease(tx, beneficiary, nonce)
	if err != nil {
		return 0, err
	}
	return release.Available(now), nil
}

// WithdrawParams selects a release and an amount. A nil Amount
// withdraws everything available. A non-zero IfVersion makes the
// withdrawal conditional on the release record's version.
type WithdrawParams struct {
	Beneficiary identity.Identity
	Nonce       uint64
	Amount      *uint64
	IfVersion   uint64
}

// Withdrawal is the receipt of a withdraw.
type Withdrawal struct {
	Release *Release `cbor:"release" json:"release"`
	Amount  uint64   `cbor:"amount" json:"amount"`
}

// Withdraw issues vested tokens to the beneficiary. Withdrawing zero
// succeeds without touching the mint proxy.
func Withdraw(tx state.Tx, caller identity.Identity, params WithdrawParams, now int64) (*Withdrawal, error) {
	release, err := GetRelease(tx, params.Beneficiary, params.Nonce)
	if err != nil {
		return nil, err
	}
	if caller != release.Beneficiary {
		return nil, fault.Errorf(fault.Unauthorized, "withdraw requires beneficiary %s, signer is %s", release.Beneficiary, caller)
	}
	if err := checkVersion(tx, release, params.IfVersion); err != nil {
		return nil, err
	}
	if release.Revoked {
		return nil, fault.Errorf(fault.Revoked, "release %d for %s was revoked at %d", release.Nonce, release.Beneficiary, release.RevokedTS)
	}

	available := release.Available(now)
	amount := available
	if params.Amount != nil {
		amount = *params.Amount
		if amount > available {
			return nil, fault.Errorf(fault.InsufficientVested, "requested %d exceeds available %d", amount, available)
		}
	}
	if amount == 0 {
		return &Withdrawal{Release: release}, nil
	}

	if _, err := mintproxy.Issue(tx, release.Minter(), release.Mint, amount, release.Beneficiary); err != nil {
		return nil, err
	}
	release.WithdrawnAmount += amount
	if err := tx.Put(state.ProgramLockup, release.Address(), KindRelease, release); err != nil {
		return nil, err
	}
	return &Withdrawal{Release: release, Amount: amount}, nil
}

// RevokeParams selects a release to revoke.
type RevokeParams struct {
	Beneficiary identity.Identity
	Nonce       uint64
	IfVersion   uint64
}

// Revocation is the receipt of a revoke. AlreadyRevoked marks the
// idempotent case where nothing changed.
type Revocation struct {
	Release        *Release `cbor:"release" json:"release"`
	AlreadyRevoked bool     `cbor:"already_revoked" json:"already_revoked"`
}

// RevokeRelease stops future withdrawals from a release and zeroes
// its minter allowance. Revoking a revoked release succeeds without
// changes; a fully withdrawn release fails NothingToRevoke.
func RevokeRelease(tx state.Tx, caller identity.Identity, params RevokeParams, now int64) (*Revocation, error) {
	admin, err := GetAdmin(tx)
	if err != nil {
		return nil, err
	}
	if err := admin.Require(caller, "revoke_release"); err != nil {
		return nil, err
	}
	release, err := GetRelease(tx, params.Beneficiary, params.Nonce)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(tx, release, params.IfVersion); err != nil {
		return nil, err
	}
	if !release.Revoked && release.FullyWithdrawn() {
		return nil, fault.Errorf(fault.NothingToRevoke, "release %d for %s is fully withdrawn (%d of %d)",
			release.Nonce, release.Beneficiary, release.WithdrawnAmount, release.TotalAmount)
	}

	if err := release.Revoke(now); err != nil {
		if errors.Is(err, fault.ErrAlreadyRevoked) {
			return &Revocation{Release: release, AlreadyRevoked: true}, nil
		}
		return nil, err
	}
	if _, err := mintproxy.RevokeReleaseMinter(tx, RegistrarIdentity(), release.Mint, release.Minter()); err != nil {
		return nil, err
	}
	if err := tx.Put(state.ProgramLockup, release.Address(), KindRelease, release); err != nil {
		return nil, err
	}
	return &Revocation{Release: release}, nil
}

// TransferOwnership proposes next as the ledger owner.
func TransferOwnership(tx state.Tx, caller, next identity.Identity) (*Admin, error) {
	return updateAdmin(tx, func(control *ownership.Control) error {
		return control.Propose(caller, next)
	})
}

// AcceptOwnership completes a pending transfer.
func AcceptOwnership(tx state.Tx, caller identity.Identity) (*Admin, error) {
	return updateAdmin(tx, func(control *ownership.Control) error {
		return control.Accept(caller)
	})
}

// CancelOwnershipTransfer withdraws a pending transfer.
func CancelOwnershipTransfer(tx state.Tx, caller identity.Identity) (*Admin, error) {
	return updateAdmin(tx, func(control *ownership.Control) error {
		return control.Cancel(caller)
	})
}

func updateAdmin(tx state.Tx, change func(*ownership.Control) error) (*Admin, error) {
	admin, err := GetAdmin(tx)
	if err != nil {
		return nil, err
	}
	if err := change(&admin.Control); err != nil {
		return nil, err
	}
	if err := tx.Put(state.ProgramLockup, AdminAddress(), KindAdmin, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func checkVersion(tx state.Tx, release *Release, expected uint64) error {
	if expected == 0 {
		return nil
	}
	version, err := tx.Version(state.ProgramLockup, release.Address())
	if err != nil {
		return err
	}
	if version != expected {
		return fault.Errorf(fault.Conflict, "release %d for %s is at version %d, expected %d",
			release.Nonce, release.Beneficiary, version, expected)
	}
	return nil
}
