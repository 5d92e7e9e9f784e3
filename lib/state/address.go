// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package state

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/lockup/lib/identity"
)

// Program is a record namespace.
type Program string

const (
	ProgramToken      Program = "token"
	ProgramMintProxy  Program = "mintproxy"
	ProgramLockup     Program = "lockup"
	ProgramTransition Program = "transition"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 32

// Address is a 32-byte record key, rendered as base58.
type Address [AddressSize]byte

// addressDomainKey is the BLAKE3 key for Derive: the ASCII domain name
// zero-padded to 32 bytes. Changing it moves every derived address.
var addressDomainKey = [32]byte{
	'l', 'o', 'c', 'k', 'u', 'p', '.', 'a', 'd', 'd', 'r', 'e', 's', 's', 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Derive computes the address owned by program for the given seeds.
// The program name and every seed are length-prefixed before hashing,
// so ("ab", "c") and ("a", "bc") derive different addresses.
func Derive(program Program, seeds ...[]byte) Address {
	hasher, err := blake3.NewKeyed(addressDomainKey[:])
	if err != nil {
		panic("state: BLAKE3 keyed hash initialization failed: " + err.Error())
	}

	var prefix [binary.MaxVarintLen64]byte
	write := func(part []byte) {
		n := binary.PutUvarint(prefix[:], uint64(len(part)))
		hasher.Write(prefix[:n])
		hasher.Write(part)
	}

	write([]byte(program))
	for _, seed := range seeds {
		write(seed)
	}

	var address Address
	copy(address[:], hasher.Sum(nil))
	return address
}

// FromIdentity returns the address holding the same 32 bytes as id.
func FromIdentity(id identity.Identity) Address {
	return Address(id)
}

// Identity returns the address reinterpreted as an identity. For a
// derived address the result is an identity without a private key:
// it can be named as a minter or token holder but never signs.
func (a Address) Identity() identity.Identity {
	return identity.Identity(a)
}

// ParseAddress decodes a base58 address.
func ParseAddress(text string) (Address, error) {
	var address Address
	decoded := base58.Decode(text)
	if len(decoded) != AddressSize {
		return address, fmt.Errorf("state: address %q decodes to %d bytes, want %d", text, len(decoded), AddressSize)
	}
	copy(address[:], decoded)
	return address, nil
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

// Short returns the first eight base58 characters.
func (a Address) Short() string {
	text := a.String()
	if len(text) <= 8 {
		return text
	}
	return text[:8]
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
