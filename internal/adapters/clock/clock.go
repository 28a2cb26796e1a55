// Package clock abstracts time access so timer-driven state machines
// can be tested with a manual clock.
package clock

import "time"

// Timer is a single-shot timer handle.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

// Clock provides the current time and timer construction.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// System is the real clock.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// AfterFunc schedules fn after d.
func (System) AfterFunc(d time.Duration, fn func()) Timer {
	return sysTimer{time.AfterFunc(d, fn)}
}

type sysTimer struct{ t *time.Timer }

func (s sysTimer) Stop() bool                 { return s.t.Stop() }
func (s sysTimer) Reset(d time.Duration) bool { return s.t.Reset(d) }
