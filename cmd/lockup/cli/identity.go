// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/identity"
)

// RequireIdentity resolves a required identity flag with
// [ResolveIdentity]. flag names the flag for error messages.
func RequireIdentity(cfg *config.Config, flag, text string) (identity.Identity, error) {
	if text == "" {
		return identity.Identity{}, Validation("--%s is required", flag)
	}
	id, err := ResolveIdentity(cfg, text)
	if err != nil {
		return identity.Identity{}, Validation("--%s: %v", flag, err)
	}
	return id, nil
}

// OptionalIdentity resolves an identity flag that may be empty, in
// which case the zero identity is returned.
func OptionalIdentity(cfg *config.Config, flag, text string) (identity.Identity, error) {
	if text == "" {
		return identity.Identity{}, nil
	}
	return RequireIdentity(cfg, flag, text)
}
