// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// maxSocketPath is the usable length of sun_path on Linux.
const maxSocketPath = 107

// SocketPath returns a path for a Unix socket named name, inside a
// directory under /tmp that is removed when the test ends.
func SocketPath(t *testing.T, name string) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "lockup-test-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(directory) })

	path := filepath.Join(directory, name)
	if len(path) > maxSocketPath {
		t.Fatalf("socket path %s is %d bytes, over the %d-byte limit", path, len(path), maxSocketPath)
	}
	return path
}
