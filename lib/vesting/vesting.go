// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package vesting computes linear release schedules. Everything here
// is pure arithmetic on Unix-second timestamps.
package vesting

import (
	"math/bits"

	"github.com/bureau-foundation/lockup/lib/fault"
)

// VestedAmount returns how much of total has vested at now for a
// schedule releasing linearly from start to end:
//
//	now <= start  ->  0
//	now >= end    ->  total
//	otherwise     ->  floor(total * (now - start) / (end - start))
//
// The product is computed in 128 bits, so no total overflows. The
// caller guarantees end > start; with end <= start the schedule is a
// step at end.
func VestedAmount(total uint64, start, end, now int64) uint64 {
	if now <= start {
		return 0
	}
	if now >= end {
		return total
	}
	// start < now < end here, so both differences are positive and
	// fit in uint64 even when start is negative.
	elapsed := uint64(now) - uint64(start)
	duration := uint64(end) - uint64(start)

	hi, lo := bits.Mul64(total, elapsed)
	// elapsed < duration, so the quotient is below total and Div64
	// cannot overflow.
	quotient, _ := bits.Div64(hi, lo, duration)
	return quotient
}

// Validate fails InvalidConfig unless end is after start.
func Validate(start, end int64) error {
	if end <= start {
		return fault.Errorf(fault.InvalidConfig, "end_ts %d must be after start_ts %d", end, start)
	}
	return nil
}

// Schedule is a linear release of Total between Start and End.
type Schedule struct {
	Total uint64
	Start int64
	End   int64
}

// Vested returns VestedAmount for the schedule.
func (s Schedule) Vested(now int64) uint64 {
	return VestedAmount(s.Total, s.Start, s.End, now)
}

// Fraction returns the vested share of the schedule in [0, 1], for
// display only.
func (s Schedule) Fraction(now int64) float64 {
	switch {
	case now <= s.Start:
		return 0
	case now >= s.End:
		return 1
	}
	return float64(now-s.Start) / float64(s.End-s.Start)
}

// Remaining returns the seconds until the schedule is fully vested,
// or 0 once it is.
func (s Schedule) Remaining(now int64) int64 {
	if now >= s.End {
		return 0
	}
	return s.End - now
}
