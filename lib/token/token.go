// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token is the issuance primitive: token mints with a single
// mint authority, and per-holder balances. It has no transfer logic;
// balances only grow through MintTo.
//
// Every function operates inside a caller-supplied state.Tx, so token
// effects commit or roll back with the transition that caused them.
package token

import (
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/state"
)

// Record kinds.
const (
	KindMint    = "mint"
	KindAccount = "account"
)

// Mint describes one token.
type Mint struct {
	Token         identity.Identity `cbor:"token" json:"token"`
	Decimals      uint8             `cbor:"decimals" json:"decimals"`
	Supply        uint64            `cbor:"supply" json:"supply"`
	MintAuthority identity.Identity `cbor:"mint_authority" json:"mint_authority"`
}

// Account is a holder's balance of one token.
type Account struct {
	Token  identity.Identity `cbor:"token" json:"token"`
	Holder identity.Identity `cbor:"holder" json:"holder"`
	Amount uint64            `cbor:"amount" json:"amount"`
}

// MintAddress is where the Mint record for token lives.
func MintAddress(token identity.Identity) state.Address {
	return state.Derive(state.ProgramToken, []byte("mint"), token[:])
}

// AccountAddress is where holder's Account for token lives.
func AccountAddress(token, holder identity.Identity) state.Address {
	return state.Derive(state.ProgramToken, []byte("account"), token[:], holder[:])
}

// CreateMint registers token with caller as its mint authority.
func CreateMint(tx state.Tx, caller, token identity.Identity, decimals uint8) (*Mint, error) {
	if token.IsZero() {
		return nil, fault.Errorf(fault.InvalidConfig, "token identity is zero")
	}
	if decimals > 18 {
		return nil, fault.Errorf(fault.InvalidConfig, "decimals %d exceeds 18", decimals)
	}
	address := MintAddress(token)
	var existing Mint
	found, err := tx.Get(state.ProgramToken, address, &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fault.Errorf(fault.AlreadyInitialized, "token %s already exists", token)
	}

	mint := &Mint{Token: token, Decimals: decimals, MintAuthority: caller}
	if err := tx.Put(state.ProgramToken, address, KindMint, mint); err != nil {
		return nil, err
	}
	return mint, nil
}

// GetMint loads token's Mint. Fails UnknownToken if absent.
func GetMint(tx state.Tx, token identity.Identity) (*Mint, error) {
	var mint Mint
	found, err := tx.Get(state.ProgramToken, MintAddress(token), &mint)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fault.Errorf(fault.UnknownToken, "no mint for token %s", token)
	}
	return &mint, nil
}

// SetAuthority hands the mint authority of token to next. Only the
// current authority may do so.
func SetAuthority(tx state.Tx, caller, token, next identity.Identity) (*Mint, error) {
	mint, err := GetMint(tx, token)
	if err != nil {
		return nil, err
	}
	if caller != mint.MintAuthority {
		return nil, fault.Errorf(fault.Unauthorized, "set_authority on %s requires mint authority %s, signer is %s",
			token.Short(), mint.MintAuthority, caller)
	}
	mint.MintAuthority = next
	if err := tx.Put(state.ProgramToken, MintAddress(token), KindMint, mint); err != nil {
		return nil, err
	}
	return mint, nil
}

// MintTo creates amount new tokens in holder's account. authority must
// be the token's mint authority. Supply and balance are checked for
// overflow before anything is written.
func MintTo(tx state.Tx, authority, token, holder identity.Identity, amount uint64) (*Account, error) {
	mint, err := GetMint(tx, token)
	if err != nil {
		return nil, err
	}
	if authority != mint.MintAuthority {
		return nil, fault.Errorf(fault.Unauthorized, "mint_to on %s requires mint authority %s, got %s",
			token.Short(), mint.MintAuthority, authority)
	}
	if holder.IsZero() {
		return nil, fault.Errorf(fault.InvalidConfig, "mint_to the zero identity")
	}

	account, err := GetAccount(tx, token, holder)
	if err != nil {
		return nil, err
	}
	if amount > ^uint64(0)-mint.Supply {
		return nil, fault.Errorf(fault.Overflow, "supply %d + %d overflows", mint.Supply, amount)
	}
	// Amount never exceeds supply, so this cannot overflow once the
	// supply check passed.
	mint.Supply += amount
	account.Amount += amount

	if err := tx.Put(state.ProgramToken, MintAddress(token), KindMint, mint); err != nil {
		return nil, err
	}
	if err := tx.Put(state.ProgramToken, AccountAddress(token, holder), KindAccount, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount returns holder's account for token. A holder that never
// received tokens has an empty account, not an error.
func GetAccount(tx state.Tx, token, holder identity.Identity) (*Account, error) {
	account := Account{Token: token, Holder: holder}
	if _, err := tx.Get(state.ProgramToken, AccountAddress(token, holder), &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Balance returns holder's balance of token.
func Balance(tx state.Tx, token, holder identity.Identity) (uint64, error) {
	account, err := GetAccount(tx, token, holder)
	if err != nil {
		return 0, err
	}
	return account.Amount, nil
}
