// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service is the daemon's local socket protocol.
//
// lockupd listens on a Unix socket. Each connection carries exactly one
// CBOR request (a map with an "action" key plus action-specific fields)
// and one CBOR [Response]. The server dispatches on the action name to
// handlers registered with [SocketServer.Handle].
//
// Failures carry the [fault.Kind] of the error in the response's code
// field. [Client.Call] turns a failed response into a *[ServiceError]
// that unwraps to a *fault.Error of the same kind, so callers write
//
//	if errors.Is(err, fault.ErrCapExceeded) { ... }
//
// whether the ledger ran in process or behind the socket.
//
// The socket carries no authentication of its own. Mutations arrive as
// signed transitions and are authorized by their signature; queries are
// read-only. The socket file is created with mode 0600, so only the
// daemon's user can connect.
package service
