// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ledgerservice

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/lockup/lib/clock"
	"github.com/bureau-foundation/lockup/lib/service"
	"github.com/bureau-foundation/lockup/lib/state"
	"github.com/bureau-foundation/lockup/lib/transition"
)

// Service answers socket requests against one store. All writes
// go through the processor.
type Service struct {
	store     state.Store
	processor *transition.Processor
	clock     clock.Clock
	startedAt time.Time
	logger    *slog.Logger
}

// New returns a Service. startedAt, for uptime, is read from clk.
func New(store state.Store, processor *transition.Processor, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		processor: processor,
		clock:     clk,
		startedAt: clk.Now(),
		logger:    logger,
	}
}

// Register registers every socket action on the server.
func (s *Service) Register(server *service.SocketServer) {
	server.Handle("status", s.handleStatus)
	server.Handle("submit", s.handleSubmit)

	server.Handle("release", s.handleRelease)
	server.Handle("releases", s.handleReleases)
	server.Handle("available", s.handleAvailable)
	server.Handle("admin", s.handleAdmin)

	server.Handle("authority", s.handleAuthority)
	server.Handle("minter", s.handleMinter)
	server.Handle("minters", s.handleMinters)

	server.Handle("mint", s.handleMint)
	server.Handle("balance", s.handleBalance)
}

// now is the ledger time queries are evaluated at.
func (s *Service) now() int64 {
	return clock.Unix(s.clock)
}
