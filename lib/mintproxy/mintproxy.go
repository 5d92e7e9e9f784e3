// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mintproxy

import (
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/ownership"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/token"
)

// Record kinds.
const (
	KindAuthority = "authority"
	KindMinter    = "minter"
)

// Authority is the mint proxy state for one token.
type Authority struct {
	ownership.Control

	Token       identity.Identity `cbor:"token" json:"token"`
	HardCap     uint64            `cbor:"hard_cap" json:"hard_cap"`
	TotalIssued uint64            `cbor:"total_issued" json:"total_issued"`

	// MintAuthority is the derived identity that holds the token's
	// mint authority. Nobody can sign for it.
	MintAuthority identity.Identity `cbor:"mint_authority" json:"mint_authority"`

	// Registrar is the ledger identity allowed to register and revoke
	// release minters without being the owner. Zero until bound.
	Registrar identity.Identity `cbor:"registrar" json:"registrar"`
}

// Remaining returns how much more can be issued under the cap.
func (a *Authority) Remaining() uint64 {
	return a.HardCap - a.TotalIssued
}

// Minter is one registered minter and its remaining allowance.
type Minter struct {
	Token     identity.Identity `cbor:"token" json:"token"`
	Minter    identity.Identity `cbor:"minter" json:"minter"`
	Allowance uint64            `cbor:"allowance" json:"allowance"`
}

// AuthorityAddress is the address of token's Authority record.
func AuthorityAddress(token identity.Identity) state.Address {
	return state.Derive(state.ProgramMintProxy, []byte("authority"), token[:])
}

// MintAuthorityFor returns the derived identity that holds the mint
// authority of a token managed by the proxy at authority.
func MintAuthorityFor(authority state.Address) identity.Identity {
	return state.Derive(state.ProgramMintProxy, []byte("mint_authority"), authority[:]).Identity()
}

// MinterAddress is the address of minter's record under token.
func MinterAddress(token, minter identity.Identity) state.Address {
	return state.Derive(state.ProgramMintProxy, []byte("minter"), token[:], minter[:])
}

// Create initializes the proxy for token. caller must currently hold
// the token's mint authority; it passes to the proxy. owner controls
// the minter set afterwards.
func Create(tx state.Tx, caller, owner, tokenID identity.Identity, hardCap uint64) (*Authority, error) {
	if hardCap == 0 {
		return nil, fault.Errorf(fault.InvalidConfig, "hard_cap must be positive")
	}
	if owner.IsZero() {
		return nil, fault.Errorf(fault.InvalidConfig, "owner identity is zero")
	}

	address := AuthorityAddress(tokenID)
	var existing Authority
	found, err := tx.Get(state.ProgramMintProxy, address, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fault.Errorf(fault.AlreadyInitialized, "mint proxy for token %s already exists", tokenID)
	}

	mintAuthority := MintAuthorityFor(address)
	if _, err := token.SetAuthority(tx, caller, tokenID, mintAuthority); err != nil {
		return nil, err
	}

	authority := &Authority{
		Control:       ownership.New(owner),
		Token:         tokenID,
		HardCap:       hardCap,
		MintAuthority: mintAuthority,
	}
	if err := tx.Put(state.ProgramMintProxy, address, KindAuthority, authority); err != nil {
		return nil, err
	}
	return authority, nil
}

// GetAuthority loads the proxy for token. Fails NotInitialized if the
// proxy was never created.
func GetAuthority(tx state.Tx, tokenID identity.Identity) (*Authority, error) {
	var authority Authority
	found, err := tx.Get(state.ProgramMintProxy, AuthorityAddress(tokenID), &authority)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fault.Errorf(fault.NotInitialized, "no mint proxy for token %s", tokenID)
	}
	return &authority, nil
}

// GetMinter loads minter's record. Fails UnknownMinter if absent.
func GetMinter(tx state.Tx, tokenID, minter identity.Identity) (*Minter, error) {
	var record Minter
	found, err := tx.Get(state.ProgramMintProxy, MinterAddress(tokenID, minter), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fault.Errorf(fault.UnknownMinter, "minter %s is not registered", minter)
	}
	return &record, nil
}

// Minters lists every registered minter of token.
func Minters(tx state.Tx, tokenID identity.Identity) ([]Minter, error) {
	var minters []Minter
	err := tx.List(state.ProgramMintProxy, KindMinter, func(entry state.Entry) error {
		var record Minter
		if err := entry.Decode(&record); err != nil {
			return err
		}
		if record.Token == tokenID {
			minters = append(minters, record)
		}
		return nil
	})
	return minters, err
}

// AddMinter registers minter with the given allowance, overwriting any
// previous allowance. Owner only.
func AddMinter(tx state.Tx, caller, tokenID, minter identity.Identity, allowance uint64) (*Minter, error) {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := authority.Require(caller, "add_minter"); err != nil {
		return nil, err
	}
	return putMinter(tx, tokenID, minter, allowance)
}

func putMinter(tx state.Tx, tokenID, minter identity.Identity, allowance uint64) (*Minter, error) {
	if minter.IsZero() {
		return nil, fault.Errorf(fault.InvalidConfig, "minter identity is zero")
	}
	record := &Minter{Token: tokenID, Minter: minter, Allowance: allowance}
	if err := tx.Put(state.ProgramMintProxy, MinterAddress(tokenID, minter), KindMinter, record); err != nil {
		return nil, err
	}
	return record, nil
}

// RemoveMinter deletes minter's record. Owner only.
func RemoveMinter(tx state.Tx, caller, tokenID, minter identity.Identity) error {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return err
	}
	if err := authority.Require(caller, "remove_minter"); err != nil {
		return err
	}
	if _, err := GetMinter(tx, tokenID, minter); err != nil {
		return err
	}
	return tx.Delete(state.ProgramMintProxy, MinterAddress(tokenID, minter))
}

// ZeroAllowance sets minter's allowance to zero while keeping it
// registered. Owner only.
func ZeroAllowance(tx state.Tx, caller, tokenID, minter identity.Identity) (*Minter, error) {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := authority.Require(caller, "zero_allowance"); err != nil {
		return nil, err
	}
	return zeroMinter(tx, tokenID, minter)
}

func zeroMinter(tx state.Tx, tokenID, minter identity.Identity) (*Minter, error) {
	record, err := GetMinter(tx, tokenID, minter)
	if err != nil {
		return nil, err
	}
	record.Allowance = 0
	if err := tx.Put(state.ProgramMintProxy, MinterAddress(tokenID, minter), KindMinter, record); err != nil {
		return nil, err
	}
	return record, nil
}

// BindRegistrar lets registrar manage release minters through
// RegisterReleaseMinter and RevokeReleaseMinter. Owner only, and only
// once per proxy.
func BindRegistrar(tx state.Tx, caller, tokenID, registrar identity.Identity) (*Authority, error) {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := authority.Require(caller, "bind_registrar"); err != nil {
		return nil, err
	}
	if registrar.IsZero() {
		return nil, fault.Errorf(fault.InvalidConfig, "registrar identity is zero")
	}
	if !authority.Registrar.IsZero() {
		return nil, fault.Errorf(fault.AlreadyInitialized, "proxy for token %s already has registrar %s", tokenID, authority.Registrar)
	}
	authority.Registrar = registrar
	if err := tx.Put(state.ProgramMintProxy, AuthorityAddress(tokenID), KindAuthority, authority); err != nil {
		return nil, err
	}
	return authority, nil
}

// RegisterReleaseMinter is AddMinter for the bound registrar. It does
// not depend on who owns the proxy.
func RegisterReleaseMinter(tx state.Tx, registrar, tokenID, minter identity.Identity, allowance uint64) (*Minter, error) {
	if err := requireRegistrar(tx, registrar, tokenID, "register_release_minter"); err != nil {
		return nil, err
	}
	return putMinter(tx, tokenID, minter, allowance)
}

// RevokeReleaseMinter is ZeroAllowance for the bound registrar.
func RevokeReleaseMinter(tx state.Tx, registrar, tokenID, minter identity.Identity) (*Minter, error) {
	if err := requireRegistrar(tx, registrar, tokenID, "revoke_release_minter"); err != nil {
		return nil, err
	}
	return zeroMinter(tx, tokenID, minter)
}

func requireRegistrar(tx state.Tx, registrar, tokenID identity.Identity, action string) error {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return err
	}
	if authority.Registrar.IsZero() || authority.Registrar != registrar {
		return fault.Errorf(fault.Unauthorized, "%s requires the bound registrar, got %s", action, registrar)
	}
	return nil
}

// Issue mints amount to destination on behalf of minter.
func Issue(tx state.Tx, minter, tokenID identity.Identity, amount uint64, destination identity.Identity) (*Authority, error) {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return nil, err
	}
	record, err := GetMinter(tx, tokenID, minter)
	if err != nil {
		return nil, err
	}
	if amount > record.Allowance {
		return nil, fault.Errorf(fault.AllowanceExceeded, "amount %d exceeds minter allowance %d", amount, record.Allowance)
	}
	if amount > authority.Remaining() {
		return nil, fault.Errorf(fault.CapExceeded, "amount %d exceeds remaining cap %d (issued %d of %d)",
			amount, authority.Remaining(), authority.TotalIssued, authority.HardCap)
	}

	record.Allowance -= amount
	authority.TotalIssued += amount
	if err := tx.Put(state.ProgramMintProxy, MinterAddress(tokenID, minter), KindMinter, record); err != nil {
		return nil, err
	}
	if err := tx.Put(state.ProgramMintProxy, AuthorityAddress(tokenID), KindAuthority, authority); err != nil {
		return nil, err
	}
	if _, err := token.MintTo(tx, authority.MintAuthority, tokenID, destination, amount); err != nil {
		return nil, err
	}
	return authority, nil
}

// TransferOwnership proposes next as the proxy owner.
func TransferOwnership(tx state.Tx, caller, tokenID, next identity.Identity) (*Authority, error) {
	return updateControl(tx, tokenID, func(control *ownership.Control) error {
		return control.Propose(caller, next)
	})
}

// AcceptOwnership completes a pending transfer.
func AcceptOwnership(tx state.Tx, caller, tokenID identity.Identity) (*Authority, error) {
	return updateControl(tx, tokenID, func(control *ownership.Control) error {
		return control.Accept(caller)
	})
}

// CancelOwnershipTransfer withdraws a pending transfer.
func CancelOwnershipTransfer(tx state.Tx, caller, tokenID identity.Identity) (*Authority, error) {
	return updateControl(tx, tokenID, func(control *ownership.Control) error {
		return control.Cancel(caller)
	})
}

func updateControl(tx state.Tx, tokenID identity.Identity, change func(*ownership.Control) error) (*Authority, error) {
	authority, err := GetAuthority(tx, tokenID)
	if err != nil {
		return nil, err
	}
	if err := change(&authority.Control); err != nil {
		return nil, err
	}
	if err := tx.Put(state.ProgramMintProxy, AuthorityAddress(tokenID), KindAuthority, authority); err != nil {
		return nil, err
	}
	return authority, nil
}
