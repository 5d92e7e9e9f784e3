// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/lockup/lib/clock"
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/token"
)

// KindProcessed is the record kind of ProcessedTransition.
const KindProcessed = "processed"

// DefaultMaxValidity bounds ExpiresAt - IssuedAt when Config leaves
// MaxValidity unset.
const DefaultMaxValidity = 24 * time.Hour

// ProcessedTransition marks a transition id as applied.
type ProcessedTransition struct {
	ID        string            `cbor:"id" json:"id"`
	Kind      Kind              `cbor:"kind" json:"kind"`
	Signer    identity.Identity `cbor:"signer" json:"signer"`
	AppliedTS int64             `cbor:"applied_ts" json:"applied_ts"`
}

// ProcessedAddress is the address of the replay record for id.
func ProcessedAddress(id string) state.Address {
	return state.Derive(state.ProgramTransition, []byte("processed"), []byte(id))
}

// Receipt reports an applied transition. Result holds the record the
// instruction produced: a *lockup.Withdrawal, a *mintproxy.Authority,
// and so on.
type Receipt struct {
	ID        string            `cbor:"id" json:"id"`
	Kind      Kind              `cbor:"kind" json:"kind"`
	Signer    identity.Identity `cbor:"signer" json:"signer"`
	AppliedTS int64             `cbor:"applied_ts" json:"applied_ts"`
	Result    any               `cbor:"result,omitempty" json:"result,omitempty"`
}

// Config configures a Processor. Store is required.
type Config struct {
	Store state.Store

	// Clock supplies now_ts. Defaults to clock.Real().
	Clock clock.Clock

	// MaxValidity rejects transitions whose validity window is longer,
	// bounding how long a leaked signed transition stays usable.
	// Defaults to DefaultMaxValidity.
	MaxValidity time.Duration

	Logger *slog.Logger
}

type handler func(tx state.Tx, t *Transition, now int64) (any, error)

// Processor verifies and applies transitions. Safe for concurrent use;
// the store serializes the transactions.
type Processor struct {
	store       state.Store
	clock       clock.Clock
	maxValidity time.Duration
	logger      *slog.Logger
	handlers    map[Kind]handler
}

// NewProcessor returns a Processor over cfg.Store.
func NewProcessor(cfg Config) (*Processor, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("transition: Config.Store is required")
	}
	p := &Processor{
		store:       cfg.Store,
		clock:       cfg.Clock,
		maxValidity: cfg.MaxValidity,
		logger:      cfg.Logger,
	}
	if p.clock == nil {
		p.clock = clock.Real()
	}
	if p.maxValidity <= 0 {
		p.maxValidity = DefaultMaxValidity
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.handlers = map[Kind]handler{
		TokenCreateMint:         applyCreateMint,
		ProxyCreate:             applyProxyCreate,
		ProxyAddMinter:          applyAddMinter,
		ProxyRemoveMinter:       applyRemoveMinter,
		ProxyIssue:              applyIssue,
		ProxyTransferOwnership:  applyProxyTransfer,
		ProxyAcceptOwnership:    applyProxyAccept,
		ProxyCancelTransfer:     applyProxyCancel,
		LedgerInitialize:        applyInitialize,
		LedgerCreateRelease:     applyCreateRelease,
		LedgerWithdraw:          applyWithdraw,
		LedgerRevokeRelease:     p.applyRevoke,
		LedgerTransferOwnership: applyLedgerTransfer,
		LedgerAcceptOwnership:   applyLedgerAccept,
		LedgerCancelTransfer:    applyLedgerCancel,
	}
	return p, nil
}

// Clock returns the processor's clock.
func (p *Processor) Clock() clock.Clock {
	return p.clock
}

// Submit verifies signed transition bytes and applies them.
func (p *Processor) Submit(ctx context.Context, data []byte) (*Receipt, error) {
	t, err := Verify(data, p.clock.Now())
	if err != nil {
		p.logger.Warn("transition rejected", "error", err, "error_kind", string(fault.KindOf(err)))
		return nil, err
	}
	if err := p.checkValidity(t); err != nil {
		p.logger.Warn("transition rejected", "transition_id", t.ID, "kind", string(t.Kind), "error", err)
		return nil, err
	}

	receipt, err := p.apply(ctx, t)
	if err != nil {
		p.logger.Warn("transition failed",
			"transition_id", t.ID,
			"kind", string(t.Kind),
			"signer", t.Signer.String(),
			"error", err,
			"error_kind", string(fault.KindOf(err)),
		)
		return nil, err
	}
	p.logger.Info("transition applied",
		"transition_id", t.ID,
		"kind", string(t.Kind),
		"signer", t.Signer.String(),
		"applied_ts", receipt.AppliedTS,
	)
	return receipt, nil
}

// checkValidity bounds the signed window in whole seconds. The
// subtraction is done unsigned once ExpiresAt > IssuedAt, so extreme
// timestamps cannot wrap.
func (p *Processor) checkValidity(t *Transition) error {
	if t.ExpiresAt <= t.IssuedAt {
		return fault.Errorf(fault.InvalidConfig, "transition expires at %d, not after its issue time %d", t.ExpiresAt, t.IssuedAt)
	}
	window := uint64(t.ExpiresAt) - uint64(t.IssuedAt)
	if limit := uint64(p.maxValidity / time.Second); window > limit {
		return fault.Errorf(fault.InvalidConfig, "validity window %ds exceeds maximum %s", window, p.maxValidity)
	}
	return nil
}

func (p *Processor) apply(ctx context.Context, t *Transition) (*Receipt, error) {
	handle, ok := p.handlers[t.Kind]
	if !ok {
		return nil, fault.Errorf(fault.InvalidConfig, "unknown instruction kind %q", t.Kind)
	}

	var receipt *Receipt
	err := p.store.Update(ctx, func(tx state.Tx) error {
		address := ProcessedAddress(t.ID)
		var previous ProcessedTransition
		found, err := tx.Get(state.ProgramTransition, address, &previous)
		if err != nil {
			return err
		}
		if found {
			return fault.Errorf(fault.Replayed, "transition %s was applied at %d", t.ID, previous.AppliedTS)
		}

		now := clock.Unix(p.clock)
		result, err := handle(tx, t, now)
		if err != nil {
			return err
		}

		processed := ProcessedTransition{ID: t.ID, Kind: t.Kind, Signer: t.Signer, AppliedTS: now}
		if err := tx.Put(state.ProgramTransition, address, KindProcessed, processed); err != nil {
			return err
		}
		receipt = &Receipt{ID: t.ID, Kind: t.Kind, Signer: t.Signer, AppliedTS: now, Result: result}
		return nil
	})
	if err != nil {
		var faultError *fault.Error
		if !errors.As(err, &faultError) {
			return nil, fmt.Errorf("transition: applying %s: %w", t.ID, err)
		}
		return nil, err
	}
	return receipt, nil
}

// Applied returns the number of transitions applied to the store.
func (p *Processor) Applied(ctx context.Context) (int, error) {
	count := 0
	err := p.store.View(ctx, func(tx state.Tx) error {
		return tx.List(state.ProgramTransition, KindProcessed, func(state.Entry) error {
			count++
			return nil
		})
	})
	return count, err
}

func applyCreateMint(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body CreateMintBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return token.CreateMint(tx, t.Signer, body.Token, body.Decimals)
}

func applyProxyCreate(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body ProxyCreateBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	owner := body.Owner
	if owner.IsZero() {
		owner = t.Signer
	}
	return mintproxy.Create(tx, t.Signer, owner, body.Token, body.HardCap)
}

func applyAddMinter(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body MinterBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return mintproxy.AddMinter(tx, t.Signer, body.Token, body.Minter, body.Allowance)
}

func applyRemoveMinter(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body MinterBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	if err := mintproxy.RemoveMinter(tx, t.Signer, body.Token, body.Minter); err != nil {
		return nil, err
	}
	return nil, nil
}

func applyIssue(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body IssueBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return mintproxy.Issue(tx, t.Signer, body.Token, body.Amount, body.Destination)
}

func applyProxyTransfer(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body ProxyOwnershipBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return mintproxy.TransferOwnership(tx, t.Signer, body.Token, body.NewOwner)
}

func applyProxyAccept(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body ProxyOwnershipBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return mintproxy.AcceptOwnership(tx, t.Signer, body.Token)
}

func applyProxyCancel(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body ProxyOwnershipBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return mintproxy.CancelOwnershipTransfer(tx, t.Signer, body.Token)
}

func applyInitialize(tx state.Tx, t *Transition, now int64) (any, error) {
	var body InitializeBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return lockup.Initialize(tx, t.Signer, body.Token, now)
}

func applyCreateRelease(tx state.Tx, t *Transition, now int64) (any, error) {
	var body CreateReleaseBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return lockup.CreateRelease(tx, t.Signer, lockup.CreateParams{
		Beneficiary: body.Beneficiary,
		Nonce:       body.Nonce,
		Mint:        body.Mint,
		Amount:      body.Amount,
		StartTS:     body.StartTS,
		EndTS:       body.EndTS,
	}, now)
}

func applyWithdraw(tx state.Tx, t *Transition, now int64) (any, error) {
	var body WithdrawBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	beneficiary := body.Beneficiary
	if beneficiary.IsZero() {
		beneficiary = t.Signer
	}
	return lockup.Withdraw(tx, t.Signer, lockup.WithdrawParams{
		Beneficiary: beneficiary,
		Nonce:       body.Nonce,
		Amount:      body.Amount,
		IfVersion:   body.IfVersion,
	}, now)
}

func (p *Processor) applyRevoke(tx state.Tx, t *Transition, now int64) (any, error) {
	var body RevokeBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	revocation, err := lockup.RevokeRelease(tx, t.Signer, lockup.RevokeParams{
		Beneficiary: body.Beneficiary,
		Nonce:       body.Nonce,
		IfVersion:   body.IfVersion,
	}, now)
	if err != nil {
		return nil, err
	}
	if revocation.AlreadyRevoked {
		p.logger.Info("release already revoked",
			"transition_id", t.ID,
			"beneficiary", body.Beneficiary.String(),
			"nonce", body.Nonce,
			"revoked_ts", revocation.Release.RevokedTS,
		)
	}
	return revocation, nil
}

func applyLedgerTransfer(tx state.Tx, t *Transition, _ int64) (any, error) {
	var body LedgerOwnershipBody
	if err := t.DecodeBody(&body); err != nil {
		return nil, err
	}
	return lockup.TransferOwnership(tx, t.Signer, body.NewOwner)
}

func applyLedgerAccept(tx state.Tx, t *Transition, _ int64) (any, error) {
	return lockup.AcceptOwnership(tx, t.Signer)
}

func applyLedgerCancel(tx state.Tx, t *Transition, _ int64) (any, error) {
	return lockup.CancelOwnershipTransfer(tx, t.Signer)
}
