// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// RawMessage is an encoded value whose decoding is deferred, such as a
// transition body before its kind is known.
type RawMessage = cbor.RawMessage

var (
	encoding = mustEncMode()
	decoding = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	options := cbor.CoreDetEncOptions()
	// Identities and addresses travel as their base58 text.
	options.TextMarshaler = cbor.TextMarshalerTextString
	mode, err := options.EncMode()
	if err != nil {
		panic("codec: building encode mode: " + err.Error())
	}
	return mode
}

func mustDecMode() cbor.DecMode {
	mode, err := cbor.DecOptions{
		DefaultMapType:  reflect.TypeFor[map[string]any](),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
		// A signed payload may not carry a second value for a key the
		// verifier already read.
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: building decode mode: " + err.Error())
	}
	return mode
}

// Marshal returns the deterministic encoding of v.
func Marshal(v any) ([]byte, error) { return encoding.Marshal(v) }

// Unmarshal decodes data into v, rejecting duplicate map keys.
func Unmarshal(data []byte, v any) error { return decoding.Unmarshal(data, v) }

// NewEncoder writes a stream of deterministic values to w.
func NewEncoder(w io.Writer) *cbor.Encoder { return encoding.NewEncoder(w) }

// NewDecoder reads a stream of values from r.
func NewDecoder(r io.Reader) *cbor.Decoder { return decoding.NewDecoder(r) }

// Diagnose renders data in RFC 8949 diagnostic notation.
func Diagnose(data []byte) (string, error) { return cbor.Diagnose(data) }
