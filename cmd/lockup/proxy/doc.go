// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package proxy implements "lockup proxy", the mint proxy commands.
//
// The mint proxy holds a token's mint authority behind a hard cap and
// a set of minters with allowances. The ledger registers one minter
// per release; operators can register others for direct issuance.
package proxy
