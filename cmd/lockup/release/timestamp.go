// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/lockup/cmd/lockup/cli"
)

// parseTimestamp reads a schedule bound: "now", "+DURATION" from now,
// RFC 3339, or Unix seconds.
func parseTimestamp(name, text string, now time.Time) (int64, error) {
	switch {
	case text == "" || text == "now":
		return now.Unix(), nil
	case strings.HasPrefix(text, "+"):
		offset, err := time.ParseDuration(text[1:])
		if err != nil {
			return 0, cli.Validation("--%s: %v", name, err)
		}
		return now.Add(offset).Unix(), nil
	}
	if seconds, err := strconv.ParseInt(text, 10, 64); err == nil {
		return seconds, nil
	}
	parsed, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return 0, cli.Validation("--%s: %q is not now, +DURATION, RFC 3339, or Unix seconds", name, text)
	}
	return parsed.Unix(), nil
}

// scheduleBounds resolves --start with exactly one of --end and
// --duration.
func scheduleBounds(start, end string, duration time.Duration, now time.Time) (int64, int64, error) {
	startTS, err := parseTimestamp("start", start, now)
	if err != nil {
		return 0, 0, err
	}
	switch {
	case end != "" && duration != 0:
		return 0, 0, cli.Validation("--end and --duration are mutually exclusive")
	case end != "":
		endTS, err := parseTimestamp("end", end, now)
		if err != nil {
			return 0, 0, err
		}
		return startTS, endTS, nil
	case duration > 0:
		return startTS, startTS + int64(duration/time.Second), nil
	case duration < 0:
		return 0, 0, cli.Validation("--duration must be positive, got %s", duration)
	default:
		return 0, 0, cli.Validation("one of --end or --duration is required")
	}
}
