package clock

import (
	"sort"
	"time"
)

// Manual is a test clock. Advance moves time forward and fires due
// timers in deadline order, on the calling goroutine.
type Manual struct {
	now    time.Time
	timers []*manualTimer
}

// NewManual creates a manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the manual clock's current time.
func (m *Manual) Now() time.Time { return m.now }

// AfterFunc registers fn to fire once the clock advances past d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	t := &manualTimer{clock: m, deadline: m.now.Add(d), fn: fn, active: true}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers as it goes.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.deadline
		next.active = false
		next.fn()
	}
	m.now = target
}

func (m *Manual) nextDue(until time.Time) *manualTimer {
	var due *manualTimer
	sort.SliceStable(m.timers, func(i, j int) bool {
		return m.timers[i].deadline.Before(m.timers[j].deadline)
	})
	for _, t := range m.timers {
		if t.active && !t.deadline.After(until) {
			due = t
			break
		}
	}
	return due
}

type manualTimer struct {
	clock    *Manual
	deadline time.Time
	fn       func()
	active   bool
}

func (t *manualTimer) Stop() bool {
	was := t.active
	t.active = false
	return was
}

func (t *manualTimer) Reset(d time.Duration) bool {
	was := t.active
	t.deadline = t.clock.now.Add(d)
	t.active = true
	return was
}
