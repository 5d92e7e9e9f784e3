// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package token implements "lockup token" and "lockup balance".
//
// A token is named by an identity: any base58 identity, or the name of
// a key in the key directory. Creating the mint makes the signer its
// mint authority until "lockup proxy create" hands that authority to
// the mint proxy.
package token
