// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package simulate rehearses a vesting schedule offline.
//
// A scenario is a YAML file naming a token, its owner, and a list of
// steps. [Run] bootstraps a fresh ledger in a [state.MemoryStore]
// (mint, mint proxy, ledger), then applies each step as a signed
// transition through the same [transition.Processor] the daemon uses,
// advancing a fake clock between steps. Nothing touches disk.
//
// Actors are named, not keyed: each name maps to an Ed25519 keypair
// seeded from the BLAKE3 hash of the name, so "alice" has the same
// identity in every run and in every scenario.
//
// A step may name the fault kind it expects. The [Report] marks each
// step passed or failed so a scenario doubles as an executable check
// of a planned schedule.
package simulate
