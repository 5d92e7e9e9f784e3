// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/lockup/lib/token"
)

// DefaultDecimals is the token precision assumed when --decimals is not
// given.
const DefaultDecimals = 9

// AmountFormat binds --decimals, the precision used to read and print
// token amounts. Amounts on the command line are whole tokens ("1.5"),
// scaled to base units by the precision.
type AmountFormat struct {
	Decimals uint8
}

// AddFlags registers --decimals.
func (a *AmountFormat) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.Uint8Var(&a.Decimals, "decimals", DefaultDecimals, "token decimals for reading and printing amounts")
}

// Parse converts a whole-token amount to base units. name is the flag
// being parsed, for the error message.
func (a *AmountFormat) Parse(name, text string) (uint64, error) {
	if text == "" {
		return 0, Validation("--%s is required", name)
	}
	amount, err := token.ParseAmount(text, a.Decimals)
	if err != nil {
		return 0, Validation("--%s: %v", name, err)
	}
	return amount, nil
}

// Format renders base units as whole tokens.
func (a *AmountFormat) Format(amount uint64) string {
	return token.FormatAmount(amount, a.Decimals)
}
