// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestDistance bounds how far a typo may be from a real name and
// still be offered as "did you mean".
const maxSuggestDistance = 3

// nearest returns the candidate closest to typed, or "" when none is
// within maxSuggestDistance. Ties go to the earliest candidate.
func nearest(typed string, candidates []string) string {
	match, best := "", maxSuggestDistance+1
	for _, candidate := range candidates {
		if distance := editDistance(typed, candidate); distance < best {
			match, best = candidate, distance
		}
	}
	return match
}

func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, 0, len(commands))
	for _, command := range commands {
		names = append(names, command.Name)
	}
	return nearest(unknown, names)
}

// suggestFlag looks only at the first long flag in args that flagSet
// does not define, and returns the nearest defined flag as "--name".
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	if flagSet == nil {
		return ""
	}
	unknown, found := firstUnknownFlag(args, flagSet)
	if !found {
		return ""
	}
	var names []string
	flagSet.VisitAll(func(f *pflag.Flag) { names = append(names, f.Name) })
	if match := nearest(unknown, names); match != "" {
		return "--" + match
	}
	return ""
}

func firstUnknownFlag(args []string, flagSet *pflag.FlagSet) (string, bool) {
	for _, arg := range args {
		if arg == "--" {
			return "", false
		}
		name, isLong := strings.CutPrefix(arg, "--")
		if !isLong {
			continue
		}
		name, _, _ = strings.Cut(name, "=")
		if flagSet.Lookup(name) == nil {
			return name, true
		}
	}
	return "", false
}

// editDistance is the Levenshtein distance between a and b, computed
// over bytes with two rolling rows.
func editDistance(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	above := make([]int, len(b)+1)
	row := make([]int, len(b)+1)
	for j := range above {
		above[j] = j
	}
	for i := range len(a) {
		row[0] = i + 1
		for j := range len(b) {
			substitute := above[j]
			if a[i] != b[j] {
				substitute++
			}
			row[j+1] = min(above[j+1]+1, row[j]+1, substitute)
		}
		above, row = row, above
	}
	return above[len(b)]
}
