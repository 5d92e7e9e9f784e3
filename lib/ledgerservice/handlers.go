// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledgerservice

import (
	"context"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/fault"
	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/mintproxy"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/token"
	"github.com/bureau-foundation/lockup/lib/version"
)

// --- Request types ---
//
// The "action" field is consumed by the socket server and is not
// repeated here.

type submitRequest struct {
	Transition []byte `cbor:"transition"`
}

type releaseRequest struct {
	Beneficiary identity.Identity `cbor:"beneficiary"`
	Nonce       uint64            `cbor:"nonce"`
}

// releasesRequest filters the list by beneficiary when set.
type releasesRequest struct {
	Beneficiary identity.Identity `cbor:"beneficiary"`
}

type tokenRequest struct {
	Token identity.Identity `cbor:"token"`
}

type minterRequest struct {
	Token  identity.Identity `cbor:"token"`
	Minter identity.Identity `cbor:"minter"`
}

type balanceRequest struct {
	Token  identity.Identity `cbor:"token"`
	Holder identity.Identity `cbor:"holder"`
}

// --- Response types ---

// StatusResponse is the result of "status".
type StatusResponse struct {
	UptimeSeconds float64       `cbor:"uptime_seconds" json:"uptime_seconds"`
	Now           int64         `cbor:"now" json:"now"`
	Applied       int           `cbor:"applied" json:"applied"`
	Records       int           `cbor:"records" json:"records"`
	Build         version.Build `cbor:"build" json:"build"`
}

// AvailableResponse is the result of "available".
type AvailableResponse struct {
	Beneficiary identity.Identity `cbor:"beneficiary" json:"beneficiary"`
	Nonce       uint64            `cbor:"nonce" json:"nonce"`
	Available   uint64            `cbor:"available" json:"available"`
	Now         int64             `cbor:"now" json:"now"`
}

// BalanceResponse is the result of "balance".
type BalanceResponse struct {
	Token   identity.Identity `cbor:"token" json:"token"`
	Holder  identity.Identity `cbor:"holder" json:"holder"`
	Balance uint64            `cbor:"balance" json:"balance"`
}

func decodeRequest(raw []byte, request any) error {
	if err := codec.Unmarshal(raw, request); err != nil {
		return fault.Errorf(fault.InvalidConfig, "decoding request: %v", err)
	}
	return nil
}

func requireIdentity(name string, id identity.Identity) error {
	if id.IsZero() {
		return fault.Errorf(fault.InvalidConfig, "%s is required", name)
	}
	return nil
}

// handleStatus reports liveness and ledger counters.
func (s *Service) handleStatus(ctx context.Context, raw []byte) (any, error) {
	applied, err := s.processor.Applied(ctx)
	if err != nil {
		return nil, err
	}
	records, err := state.Count(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return StatusResponse{
		UptimeSeconds: s.clock.Now().Sub(s.startedAt).Seconds(),
		Now:           s.now(),
		Applied:       applied,
		Records:       records,
		Build:         version.Current(),
	}, nil
}

// handleSubmit verifies and applies one signed transition.
func (s *Service) handleSubmit(ctx context.Context, raw []byte) (any, error) {
	var request submitRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if len(request.Transition) == 0 {
		return nil, fault.Errorf(fault.InvalidConfig, "transition is required")
	}
	return s.processor.Submit(ctx, request.Transition)
}

func (s *Service) handleRelease(ctx context.Context, raw []byte) (any, error) {
	var request releaseRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("beneficiary", request.Beneficiary); err != nil {
		return nil, err
	}

	var status *lockup.Status
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		status, err = lockup.StatusAt(tx, request.Beneficiary, request.Nonce, s.now())
		return err
	})
	return status, err
}

func (s *Service) handleReleases(ctx context.Context, raw []byte) (any, error) {
	var request releasesRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}

	now := s.now()
	statuses := []lockup.Status{}
	err := s.store.View(ctx, func(tx state.Tx) error {
		releases, err := lockup.Releases(tx)
		if err != nil {
			return err
		}
		for _, release := range releases {
			if !request.Beneficiary.IsZero() && release.Beneficiary != request.Beneficiary {
				continue
			}
			status, err := lockup.StatusAt(tx, release.Beneficiary, release.Nonce, now)
			if err != nil {
				return err
			}
			statuses = append(statuses, *status)
		}
		return nil
	})
	return statuses, err
}

func (s *Service) handleAvailable(ctx context.Context, raw []byte) (any, error) {
	var request releaseRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("beneficiary", request.Beneficiary); err != nil {
		return nil, err
	}

	response := AvailableResponse{Beneficiary: request.Beneficiary, Nonce: request.Nonce, Now: s.now()}
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		response.Available, err = lockup.Available(tx, request.Beneficiary, request.Nonce, response.Now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (s *Service) handleAdmin(ctx context.Context, raw []byte) (any, error) {
	var admin *lockup.Admin
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		admin, err = lockup.GetAdmin(tx)
		return err
	})
	return admin, err
}

func (s *Service) handleAuthority(ctx context.Context, raw []byte) (any, error) {
	var request tokenRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("token", request.Token); err != nil {
		return nil, err
	}

	var authority *mintproxy.Authority
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		authority, err = mintproxy.GetAuthority(tx, request.Token)
		return err
	})
	return authority, err
}

func (s *Service) handleMinter(ctx context.Context, raw []byte) (any, error) {
	var request minterRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("token", request.Token); err != nil {
		return nil, err
	}
	if err := requireIdentity("minter", request.Minter); err != nil {
		return nil, err
	}

	var minter *mintproxy.Minter
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		minter, err = mintproxy.GetMinter(tx, request.Token, request.Minter)
		return err
	})
	return minter, err
}

func (s *Service) handleMinters(ctx context.Context, raw []byte) (any, error) {
	var request tokenRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("token", request.Token); err != nil {
		return nil, err
	}

	minters := []mintproxy.Minter{}
	err := s.store.View(ctx, func(tx state.Tx) error {
		found, err := mintproxy.Minters(tx, request.Token)
		if err != nil {
			return err
		}
		minters = append(minters, found...)
		return nil
	})
	return minters, err
}

func (s *Service) handleMint(ctx context.Context, raw []byte) (any, error) {
	var request tokenRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("token", request.Token); err != nil {
		return nil, err
	}

	var mint *token.Mint
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		mint, err = token.GetMint(tx, request.Token)
		return err
	})
	return mint, err
}

func (s *Service) handleBalance(ctx context.Context, raw []byte) (any, error) {
	var request balanceRequest
	if err := decodeRequest(raw, &request); err != nil {
		return nil, err
	}
	if err := requireIdentity("token", request.Token); err != nil {
		return nil, err
	}
	if err := requireIdentity("holder", request.Holder); err != nil {
		return nil, err
	}

	response := BalanceResponse{Token: request.Token, Holder: request.Holder}
	err := s.store.View(ctx, func(tx state.Tx) error {
		var err error
		response.Balance, err = token.Balance(tx, request.Token, request.Holder)
		return err
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
