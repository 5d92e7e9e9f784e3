// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transition

import (
	"fmt"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/token"
)

// EncodedReceipt is a Receipt as it crosses the socket, with Result
// still encoded. Decode restores the typed result.
type EncodedReceipt struct {
	ID        string            `cbor:"id"`
	Kind      Kind              `cbor:"kind"`
	Signer    identity.Identity `cbor:"signer"`
	AppliedTS int64             `cbor:"applied_ts"`
	Result    codec.RawMessage  `cbor:"result,omitempty"`
}

// Decode returns the receipt with Result decoded into the type the
// instruction produces.
func (r *EncodedReceipt) Decode() (*Receipt, error) {
	receipt := &Receipt{ID: r.ID, Kind: r.Kind, Signer: r.Signer, AppliedTS: r.AppliedTS}
	if len(r.Result) == 0 {
		return receipt, nil
	}
	result := NewResult(r.Kind)
	if result == nil {
		return nil, fmt.Errorf("transition: %s produces no result, receipt %s carries one", r.Kind, r.ID)
	}
	if err := codec.Unmarshal(r.Result, result); err != nil {
		return nil, fmt.Errorf("transition: decoding %s result of %s: %w", r.Kind, r.ID, err)
	}
	receipt.Result = result
	return receipt, nil
}

// NewResult returns a pointer to the zero result of kind, or nil for
// kinds that produce none.
func NewResult(kind Kind) any {
	switch kind {
	case TokenCreateMint:
		return new(token.Mint)
	case ProxyCreate, ProxyIssue, ProxyTransferOwnership, ProxyAcceptOwnership, ProxyCancelTransfer:
		return new(mintproxy.Authority)
	case ProxyAddMinter:
		return new(mintproxy.Minter)
	case LedgerInitialize, LedgerTransferOwnership, LedgerAcceptOwnership, LedgerCancelTransfer:
		return new(lockup.Admin)
	case LedgerCreateRelease:
		return new(lockup.Release)
	case LedgerWithdraw:
		return new(lockup.Withdrawal)
	case LedgerRevokeRelease:
		return new(lockup.Revocation)
	default:
		return nil
	}
}
