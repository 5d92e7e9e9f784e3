// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the lockup configuration file.
//
// Configuration comes from a single file named by the LOCKUP_CONFIG
// environment variable (via [Load]) or a --config flag (via
// [LoadFile]). There is no search path and no ~/.config discovery.
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas; anything else is YAML.
//
// The file may carry development, staging, and production sections
// that override base values when [Config].Environment matches.
// Production without an explicit section gets FULL synchronous writes
// and a one-hour transition validity ceiling.
//
// Path fields expand ${LOCKUP_ROOT}, ${HOME}, and ${VAR:-default} after
// loading. Derived paths default to locations under paths.root, so
// setting only the root moves everything.
//
// This package depends on no other lockup packages.
package config
