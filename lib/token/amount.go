// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders base units as a decimal with the mint's
// precision, trimming trailing zeros: 1500000000 at 9 decimals is
// "1.5".
func FormatAmount(amount uint64, decimals uint8) string {
	digits := strconv.FormatUint(amount, 10)
	if decimals == 0 {
		return digits
	}
	width := int(decimals)
	if len(digits) <= width {
		digits = strings.Repeat("0", width-len(digits)+1) + digits
	}
	whole, fraction := digits[:len(digits)-width], strings.TrimRight(digits[len(digits)-width:], "0")
	if fraction == "" {
		return whole
	}
	return whole + "." + fraction
}

// ParseAmount is the inverse of FormatAmount: "1.5" at 9 decimals is
// 1500000000. Underscores are ignored. More fractional digits than the
// mint carries is an error, never a silent truncation.
func ParseAmount(text string, decimals uint8) (uint64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(text), "_", "")
	whole, fraction, hasPoint := strings.Cut(cleaned, ".")
	if whole == "" && fraction == "" {
		return 0, fmt.Errorf("token: empty amount %q", text)
	}
	if hasPoint && fraction == "" {
		return 0, fmt.Errorf("token: amount %q ends in a decimal point", text)
	}
	if len(fraction) > int(decimals) {
		return 0, fmt.Errorf("token: amount %q has more than %d decimal places", text, decimals)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + fraction + strings.Repeat("0", int(decimals)-len(fraction))
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("token: invalid amount %q", text)
		}
	}
	amount, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token: amount %q out of range", text)
	}
	return amount, nil
}
