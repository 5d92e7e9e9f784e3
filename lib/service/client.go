// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net"
	"time"

	"github.com/bureau-foundation/lockup/lib/codec"
	"github.com/bureau-foundation/lockup/lib/fault"
)

const (
	connectTimeout = 5 * time.Second

	// Used when ctx has no deadline. Longer than the server's request
	// and reply deadlines combined.
	replyTimeout = 45 * time.Second

	maxReplyBytes = 1 << 20
)

// ServiceError is a failure reported by the daemon. It unwraps to a
// *fault.Error of the daemon's kind, so errors.Is works across the
// socket.
type ServiceError struct {
	Action  string
	Message string
	Code    fault.Kind
}

func (e *ServiceError) Error() string {
	if e.Code == "" {
		return e.Action + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %s", e.Action, e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	if e.Code == "" {
		return nil
	}
	return &fault.Error{Kind: e.Code, Message: e.Message}
}

// Client dials the daemon once per call. It keeps no connection and is
// safe for concurrent use.
type Client struct {
	path string
}

func NewClient(socketPath string) *Client { return &Client{path: socketPath} }

// SocketPath is the socket the client dials.
func (c *Client) SocketPath() string { return c.path }

// Call sends action with fields and decodes the reply's data into
// result, which may be nil. A failure the daemon reports comes back as
// *ServiceError; anything else is a transport error.
func (c *Client) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := maps.Clone(fields)
	if request == nil {
		request = make(map[string]any, 1)
	}
	request["action"] = action

	response, err := c.roundTrip(ctx, request)
	if err != nil {
		return fmt.Errorf("calling %q on %s: %w", action, c.path, err)
	}
	if !response.OK {
		return &ServiceError{Action: action, Message: response.Error, Code: response.Code}
	}
	if result == nil || len(response.Data) == 0 {
		return nil
	}
	if err := codec.Unmarshal(response.Data, result); err != nil {
		return fmt.Errorf("decoding response data for %q: %w", action, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, request map[string]any) (Response, error) {
	var response Response

	dialer := net.Dialer{Timeout: connectTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.path)
	if err != nil {
		return response, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(replyTimeout)
	}
	conn.SetDeadline(deadline)

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return response, fmt.Errorf("writing request: %w", err)
	}
	// Half-close so the server reads a clean EOF after the request.
	if unix, ok := conn.(*net.UnixConn); ok {
		unix.CloseWrite()
	}

	if err := codec.NewDecoder(io.LimitReader(conn, maxReplyBytes)).Decode(&response); err != nil {
		return response, fmt.Errorf("reading response: %w", err)
	}
	return response, nil
}
