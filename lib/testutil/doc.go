// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by lockup tests.
//
// [SocketPath] places Unix sockets under /tmp, since t.TempDir() can
// be longer than sun_path allows.
//
// [RequireReceive] and [RequireClosed] wait on channels with a timeout
// so a test waiting on a goroutine fails instead of hanging.
package testutil
