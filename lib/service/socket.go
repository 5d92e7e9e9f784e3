// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/fault"
)

// ActionFunc serves one action. raw is the whole request map, "action"
// key included, and the handler decodes the fields it needs.
//
// The result becomes the response's data; nil sends no data. An error
// becomes ok=false carrying the error's fault kind.
type ActionFunc func(ctx context.Context, raw []byte) (any, error)

// Response is the reply envelope.
type Response struct {
	OK    bool             `cbor:"ok"`
	Error string           `cbor:"error,omitempty"`
	Code  fault.Kind       `cbor:"code,omitempty"`
	Data  codec.RawMessage `cbor:"data,omitempty"`
}

const (
	requestDeadline = 30 * time.Second
	replyDeadline   = 10 * time.Second

	// Requests are a signed transition or a handful of query fields.
	maxRequestBytes = 1 << 20
)

// SocketServer answers one CBOR request per connection on a Unix
// socket. Connections are served concurrently, so handlers must be
// safe for concurrent use. Register every handler before Serve.
type SocketServer struct {
	path     string
	actions  map[string]ActionFunc
	logger   *slog.Logger
	ready    chan struct{}
	inFlight sync.WaitGroup
}

// NewSocketServer returns a server for path. A nil logger discards.
func NewSocketServer(path string, logger *slog.Logger) *SocketServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SocketServer{
		path:    path,
		actions: make(map[string]ActionFunc),
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Handle registers handler under action and panics if action is taken.
func (s *SocketServer) Handle(action string, handler ActionFunc) {
	if _, taken := s.actions[action]; taken {
		panic(fmt.Sprintf("service.SocketServer: duplicate handler for action %q", action))
	}
	s.actions[action] = handler
}

// Actions lists registered actions in no particular order.
func (s *SocketServer) Actions() []string {
	names := make([]string, 0, len(s.actions))
	for name := range s.actions {
		names = append(names, name)
	}
	return names
}

// Ready closes when the socket accepts connections.
func (s *SocketServer) Ready() <-chan struct{} { return s.ready }

// Serve accepts connections until ctx ends, then waits for the
// requests in flight. It replaces any stale socket file at the path,
// makes the socket owner-only, and removes it on return.
func (s *SocketServer) Serve(ctx context.Context) error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	defer os.Remove(s.path)

	stop := context.AfterFunc(ctx, func() { listener.Close() })
	defer stop()

	s.logger.Info("socket server listening", "path", s.path, "actions", len(s.actions))
	close(s.ready)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				break
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}
		s.inFlight.Go(func() { s.serveConn(ctx, conn) })
	}
	listener.Close()
	s.inFlight.Wait()
	return nil
}

func (s *SocketServer) listen() (net.Listener, error) {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("removing stale socket %s: %w", s.path, err)
	}
	listener, err := net.Listen("unix", s.path)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.path, err)
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		listener.Close()
		os.Remove(s.path)
		return nil, fmt.Errorf("restricting socket %s: %w", s.path, err)
	}
	return listener, nil
}

func (s *SocketServer) serveConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(requestDeadline))

	var raw codec.RawMessage
	err := codec.NewDecoder(io.LimitReader(conn, maxRequestBytes)).Decode(&raw)
	if errors.Is(err, io.EOF) {
		return
	}

	var response Response
	if err != nil {
		response = failure(fault.Errorf(fault.InvalidConfig, "invalid request: %v", err))
	} else {
		response = s.dispatch(ctx, raw)
	}

	conn.SetWriteDeadline(time.Now().Add(replyDeadline))
	if err := codec.NewEncoder(conn).Encode(response); err != nil {
		// The peer is gone; nothing else to tell it.
		s.logger.Debug("writing response", "error", err)
	}
}

func (s *SocketServer) dispatch(ctx context.Context, raw []byte) Response {
	var request struct {
		Action string `cbor:"action"`
	}
	if err := codec.Unmarshal(raw, &request); err != nil {
		return failure(fault.Errorf(fault.InvalidConfig, "invalid request: %v", err))
	}
	if request.Action == "" {
		return failure(fault.Errorf(fault.InvalidConfig, "missing required field: action"))
	}
	handler, found := s.actions[request.Action]
	if !found {
		return failure(fault.Errorf(fault.InvalidConfig, "unknown action %q", request.Action))
	}

	started := time.Now()
	result, err := handler(ctx, raw)
	if err != nil {
		s.logger.Debug("action failed", "action", request.Action, "error_kind", fault.KindOf(err), "error", err)
		return failure(err)
	}
	s.logger.Debug("action served", "action", request.Action, "duration", time.Since(started))

	if result == nil {
		return Response{OK: true}
	}
	data, err := codec.Marshal(result)
	if err != nil {
		return failure(fault.Errorf(fault.Internal, "marshaling response: %v", err))
	}
	return Response{OK: true, Data: data}
}

// failure builds the ok=false reply. A bare fault error sends only its
// message, since the client rebuilds the kind prefix from Code.
func failure(err error) Response {
	message := err.Error()
	var faultErr *fault.Error
	if errors.As(err, &faultErr) && faultErr.Message != "" && faultErr.Error() == message {
		message = faultErr.Message
	}
	return Response{Error: message, Code: fault.KindOf(err)}
}
