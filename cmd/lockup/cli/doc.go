// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the lockup CLI.
//
// The central type is [Command], a named subcommand with optional
// nested [Command.Subcommands], a params struct whose tagged fields
// become flags (see [BindFlags]), and a Run function. The tree is
// assembled in cmd/lockup/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing,
// and help output with examples. Unknown subcommands and flags get a
// "did you mean" suggestion by Levenshtein distance.
//
// Shared params types:
//
//   - [JSONOutput] adds --json and [JSONOutput.EmitJSON].
//   - [Connection] adds --config and --socket and dials lockupd.
//   - [SignerParams] adds --key, --passphrase-file, --validity, and
//     --out for commands that sign transitions.
package cli
