package catalog

import (
	"time"

	"github.com/tkarls/mediagrid/internal/adapters/clock"
)

// Default debounce timings for filter input.
const (
	DefaultDebounceDelay = 150 * time.Millisecond
	DefaultDebounceIdle  = time.Second
)

// Debouncer coalesces filter keystrokes. The first keystroke after an
// idle period applies immediately; further ones are held for the delay.
// Flush (Enter) and Clear (Escape) bypass the delay.
type Debouncer struct {
	clock clock.Clock
	delay time.Duration
	idle  time.Duration
	apply func(string)

	timer   clock.Timer
	armed   bool
	pending string
	last    time.Time
}

// NewDebouncer creates a debouncer that calls apply with the effective
// query text.
func NewDebouncer(c clock.Clock, delay time.Duration, idle time.Duration, apply func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	if idle <= 0 {
		idle = DefaultDebounceIdle
	}
	return &Debouncer{clock: c, delay: delay, idle: idle, apply: apply}
}

// Input records a keystroke's resulting query text.
func (d *Debouncer) Input(text string) {
	now := d.clock.Now()
	sinceLast := now.Sub(d.last)
	d.last = now
	d.pending = text

	if !d.armed && sinceLast >= d.idle {
		d.apply(text)
		return
	}

	if d.timer == nil {
		d.timer = d.clock.AfterFunc(d.delay, d.fire)
	} else {
		d.timer.Reset(d.delay)
	}
	d.armed = true
}

// Flush applies the pending text immediately.
func (d *Debouncer) Flush() {
	d.cancel()
	d.apply(d.pending)
}

// Clear resets the query to empty and applies immediately.
func (d *Debouncer) Clear() {
	d.cancel()
	d.pending = ""
	d.apply("")
}

func (d *Debouncer) fire() {
	d.armed = false
	d.apply(d.pending)
}

func (d *Debouncer) cancel() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.armed = false
}
