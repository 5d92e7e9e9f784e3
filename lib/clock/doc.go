// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock supplies the transition timestamp.
//
// The ledger never samples time on its own: the transition processor
// reads its Clock once per transition and hands that value to every
// vesting computation in the transition. Production wires Real(); tests
// wire Fake() and move time explicitly, which is how vesting schedules
// measured in seconds or years are exercised without sleeping.
//
//	c := clock.Fake(time.Unix(1_700_000_000, 0))
//	processor := transition.NewProcessor(transition.Config{Clock: c, ...})
//	c.Advance(20 * time.Second) // the release is now fully vested
package clock
