// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// FakeClock is a manually driven Clock for tests and simulation. It is
// safe for concurrent use.
type FakeClock struct {
	lock sync.RWMutex
	now  time.Time
}

// Fake returns a FakeClock stopped at start.
func Fake(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.now
}

// Advance moves the clock forward by d and panics if d is negative.
func (f *FakeClock) Advance(d time.Duration) {
	if d < 0 {
		panic("clock: FakeClock.Advance(" + d.String() + ")")
	}
	f.lock.Lock()
	f.now = f.now.Add(d)
	f.lock.Unlock()
}

// Set moves the clock to t, backwards if need be. Scenario steps with
// fixed timestamps use it.
func (f *FakeClock) Set(t time.Time) {
	f.lock.Lock()
	f.now = t
	f.lock.Unlock()
}
