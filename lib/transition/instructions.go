// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transition

import (
	"slices"

	"github.com/bureau-foundation/lockup/lib/identity"
)

// Kind names an instruction.
type Kind string

const (
	TokenCreateMint Kind = "token.create_mint"

	ProxyCreate            Kind = "mintproxy.create"
	ProxyAddMinter         Kind = "mintproxy.add_minter"
	ProxyRemoveMinter      Kind = "mintproxy.remove_minter"
	ProxyIssue             Kind = "mintproxy.issue"
	ProxyTransferOwnership Kind = "mintproxy.transfer_ownership"
	ProxyAcceptOwnership   Kind = "mintproxy.accept_ownership"
	ProxyCancelTransfer    Kind = "mintproxy.cancel_transfer"

	LedgerInitialize        Kind = "lockup.initialize"
	LedgerCreateRelease     Kind = "lockup.create_release"
	LedgerWithdraw          Kind = "lockup.withdraw"
	LedgerRevokeRelease     Kind = "lockup.revoke_release"
	LedgerTransferOwnership Kind = "lockup.transfer_ownership"
	LedgerAcceptOwnership   Kind = "lockup.accept_ownership"
	LedgerCancelTransfer    Kind = "lockup.cancel_transfer"
)

var kinds = []Kind{
	TokenCreateMint,
	ProxyCreate, ProxyAddMinter, ProxyRemoveMinter, ProxyIssue,
	ProxyTransferOwnership, ProxyAcceptOwnership, ProxyCancelTransfer,
	LedgerInitialize, LedgerCreateRelease, LedgerWithdraw, LedgerRevokeRelease,
	LedgerTransferOwnership, LedgerAcceptOwnership, LedgerCancelTransfer,
}

// Kinds returns every instruction kind.
func Kinds() []Kind {
	return slices.Clone(kinds)
}

// Known reports whether k is a defined instruction kind.
func (k Kind) Known() bool {
	return slices.Contains(kinds, k)
}

// CreateMintBody is the body of token.create_mint. The signer becomes
// the mint authority.
type CreateMintBody struct {
	Token    identity.Identity `cbor:"token"`
	Decimals uint8             `cbor:"decimals"`
}

// ProxyCreateBody is the body of mintproxy.create. The signer must
// hold the token's mint authority. A zero Owner means the signer.
type ProxyCreateBody struct {
	Token   identity.Identity `cbor:"token"`
	HardCap uint64            `cbor:"hard_cap"`
	Owner   identity.Identity `cbor:"owner"`
}

// MinterBody is the body of mintproxy.add_minter (with Allowance) and
// mintproxy.remove_minter.
type MinterBody struct {
	Token     identity.Identity `cbor:"token"`
	Minter    identity.Identity `cbor:"minter"`
	Allowance uint64            `cbor:"allowance,omitempty"`
}

// IssueBody is the body of mintproxy.issue. The signer is the minter.
type IssueBody struct {
	Token       identity.Identity `cbor:"token"`
	Amount      uint64            `cbor:"amount"`
	Destination identity.Identity `cbor:"destination"`
}

// ProxyOwnershipBody is the body of the mintproxy ownership
// instructions. NewOwner is used only by transfer_ownership.
type ProxyOwnershipBody struct {
	Token    identity.Identity `cbor:"token"`
	NewOwner identity.Identity `cbor:"new_owner"`
}

// InitializeBody is the body of lockup.initialize.
type InitializeBody struct {
	Token identity.Identity `cbor:"token"`
}

// CreateReleaseBody is the body of lockup.create_release.
type CreateReleaseBody struct {
	Beneficiary identity.Identity `cbor:"beneficiary"`
	Nonce       uint64            `cbor:"nonce,omitempty"`
	Mint        identity.Identity `cbor:"mint"`
	Amount      uint64            `cbor:"amount"`
	StartTS     int64             `cbor:"start_ts"`
	EndTS       int64             `cbor:"end_ts"`
}

// WithdrawBody is the body of lockup.withdraw. A zero Beneficiary
// means the signer; a nil Amount withdraws everything available.
type WithdrawBody struct {
	Beneficiary identity.Identity `cbor:"beneficiary"`
	Nonce       uint64            `cbor:"nonce,omitempty"`
	Amount      *uint64           `cbor:"amount,omitempty"`
	IfVersion   uint64            `cbor:"if_version,omitempty"`
}

// RevokeBody is the body of lockup.revoke_release.
type RevokeBody struct {
	Beneficiary identity.Identity `cbor:"beneficiary"`
	Nonce       uint64            `cbor:"nonce,omitempty"`
	IfVersion   uint64            `cbor:"if_version,omitempty"`
}

// LedgerOwnershipBody is the body of lockup.transfer_ownership.
// accept_ownership and cancel_transfer take an empty body.
type LedgerOwnershipBody struct {
	NewOwner identity.Identity `cbor:"new_owner"`
}
