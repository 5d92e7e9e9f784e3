// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package watchui

import (
	"context"

	"github.com/bureau-foundation/lockup/lib/identity"
	"github.com/bureau-foundation/lockup/lib/lockup"
	"github.com/bureau-foundation/lockup/lib/service"
)

// Source supplies the release being watched.
type Source interface {
	Status(ctx context.Context) (*lockup.Status, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*lockup.Status, error)

func (f SourceFunc) Status(ctx context.Context) (*lockup.Status, error) {
	return f(ctx)
}

// ClientSource reads a release through the daemon's "release" action.
type ClientSource struct {
	Client      *service.Client
	Beneficiary identity.Identity
	Nonce       uint64
}

func (s *ClientSource) Status(ctx context.Context) (*lockup.Status, error) {
	var status lockup.Status
	err := s.Client.Call(ctx, "release", map[string]any{
		"beneficiary": s.Beneficiary,
		"nonce":       s.Nonce,
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}
