// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package release

import (
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		text string
		want int64
	}{
		{"", now.Unix()},
		{"now", now.Unix()},
		{"+90m", now.Add(90 * time.Minute).Unix()},
		{"1700000000", 1_700_000_000},
		{"2026-03-02T00:00:00Z", now.Add(12 * time.Hour).Unix()},
		{"2026-03-01T14:00:00+02:00", now.Unix()},
	}
	for _, test := range tests {
		got, err := parseTimestamp("start", test.text, now)
		if err != nil {
			t.Errorf("parseTimestamp(%q): %v", test.text, err)
			continue
		}
		if got != test.want {
			t.Errorf("parseTimestamp(%q) = %d, want %d", test.text, got, test.want)
		}
	}

	for _, text := range []string{"tomorrow", "+soon", "2026-03-01"} {
		if _, err := parseTimestamp("end", text, now); err == nil || !strings.Contains(err.Error(), "--end") {
			t.Errorf("parseTimestamp(%q): err = %v, want an --end error", text, err)
		}
	}
}

func TestScheduleBounds(t *testing.T) {
	now := time.Unix(1_000, 0)

	start, end, err := scheduleBounds("now", "", time.Minute, now)
	if err != nil || start != 1_000 || end != 1_060 {
		t.Errorf("duration: (%d, %d, %v), want (1000, 1060, nil)", start, end, err)
	}
	start, end, err = scheduleBounds("500", "+1h", 0, now)
	if err != nil || start != 500 || end != 4_600 {
		t.Errorf("end: (%d, %d, %v), want (500, 4600, nil)", start, end, err)
	}

	for _, test := range []struct {
		end      string
		duration time.Duration
		want     string
	}{
		{"+1h", time.Hour, "mutually exclusive"},
		{"", 0, "one of --end or --duration"},
		{"", -time.Second, "must be positive"},
	} {
		_, _, err := scheduleBounds("now", test.end, test.duration, now)
		if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("scheduleBounds(end %q, duration %s): err = %v, want %q", test.end, test.duration, err, test.want)
		}
	}
}
