// Package viewer drives the full-screen item viewer: linear and
// shuffled traversal, the slideshow timer, adaptive video playback and
// the control-visibility state machine.
package viewer

import (
	"math"
	"time"

	"github.com/tkarls/mediagrid/internal/adapters/clock"
	"github.com/tkarls/mediagrid/internal/catalog"
	"github.com/tkarls/mediagrid/pkg/mgrid"
	"go.uber.org/zap"
)

// Tunables for the control-visibility and wheel state machines.
const (
	DefaultSlideshowInterval = 5 * time.Second
	ControlsHideDelay        = 1000 * time.Millisecond
	PointerShowThreshold     = 20.0
	WheelStepThreshold       = 100.0
)

// Viewer is the navigation state machine. All methods must be called
// from the engine's goroutine; timer callbacks are delivered through
// the injected clock.
type Viewer struct {
	log    *zap.Logger
	clock  clock.Clock
	notice func(string)

	open    bool
	items   []catalog.Item
	index   int
	shuffle bool
	order   []int

	slideshowOn       bool
	slideshowInterval time.Duration
	slideshowTimer    clock.Timer

	controlsVisible bool
	hideTimer       clock.Timer
	pointerDist     float64
	lastX, lastY    float64
	havePointer     bool
	wheelAccum      float64
}

// New creates a closed viewer. notice receives transient user-facing
// messages and may be nil.
func New(log *zap.Logger, c clock.Clock, notice func(string)) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	if notice == nil {
		notice = func(string) {}
	}
	return &Viewer{
		log:               log,
		clock:             c,
		notice:            notice,
		slideshowInterval: DefaultSlideshowInterval,
	}
}

// Open locates item in the visible sequence and enters the open state.
// If the item is absent (filtered out concurrently) the request is
// logged and silently aborted.
func (v *Viewer) Open(item catalog.Item, visible []catalog.Item) bool {
	idx := -1
	for i := range visible {
		if mgrid.EqualPaths(visible[i].Key, item.Key) {
			idx = i
			break
		}
	}
	if idx < 0 {
		v.log.Info("open aborted, item not in visible sequence", zap.String("key", item.Key))
		return false
	}

	v.cancelTimers()
	// Each open starts with the slideshow off, also on a re-open
	// without an intervening Close.
	v.slideshowOn = false
	v.items = visible
	v.index = idx
	v.open = true
	if v.shuffle {
		v.order = ShuffleOrder(len(v.items), idx)
	} else {
		v.order = nil
	}
	v.havePointer = false
	v.pointerDist = 0
	v.wheelAccum = 0
	v.showControls()
	return true
}

// Close leaves the open state and cancels all timers. The shuffle
// toggle survives for the next open.
func (v *Viewer) Close() {
	v.cancelTimers()
	v.open = false
	v.slideshowOn = false
	v.items = nil
	v.order = nil
	v.controlsVisible = false
}

// IsOpen reports the viewer state.
func (v *Viewer) IsOpen() bool { return v.open }

// Current returns the item under the cursor.
func (v *Viewer) Current() (catalog.Item, bool) {
	if !v.open || v.index < 0 || v.index >= len(v.items) {
		return catalog.Item{}, false
	}
	return v.items[v.index], true
}

// Index returns the current position in the visible sequence.
func (v *Viewer) Index() int { return v.index }

// Navigate steps by delta, circularly, through the shuffle permutation
// or the visible sequence. A no-op with fewer than two items. Manual
// navigation while the slideshow is armed re-arms its countdown.
func (v *Viewer) Navigate(delta int) {
	if !v.open || len(v.items) < 2 {
		return
	}

	n := len(v.items)
	if v.shuffle && v.order != nil {
		pos := 0
		for i, idx := range v.order {
			if idx == v.index {
				pos = i
				break
			}
		}
		pos = mod(pos+delta, n)
		v.index = v.order[pos]
	} else {
		v.index = mod(v.index+delta, n)
	}

	if v.slideshowOn {
		v.armSlideshow()
	}
	v.showControls()
}

// SetShuffle toggles shuffled traversal. While open, enabling anchors a
// fresh permutation at the current item; disabling resumes linear order
// from it. The flag persists across opens within the session.
func (v *Viewer) SetShuffle(on bool) {
	v.shuffle = on
	if !v.open {
		v.order = nil
		return
	}
	if on {
		v.order = ShuffleOrder(len(v.items), v.index)
	} else {
		v.order = nil
	}
}

// Shuffled reports the shuffle toggle.
func (v *Viewer) Shuffled() bool { return v.shuffle }

// SetSlideshowInterval overrides the slideshow period.
func (v *Viewer) SetSlideshowInterval(d time.Duration) {
	if d > 0 {
		v.slideshowInterval = d
	}
}

// StartSlideshow arms the repeating advance timer.
func (v *Viewer) StartSlideshow() {
	if !v.open {
		return
	}
	v.slideshowOn = true
	v.armSlideshow()
}

// StopSlideshow cancels the slideshow timer.
func (v *Viewer) StopSlideshow() {
	v.slideshowOn = false
	if v.slideshowTimer != nil {
		v.slideshowTimer.Stop()
	}
}

// SlideshowRunning reports whether the slideshow is armed.
func (v *Viewer) SlideshowRunning() bool { return v.slideshowOn }

// armSlideshow (re)starts the countdown. A single timer is reused so
// manual navigation resets rather than stacks firings.
func (v *Viewer) armSlideshow() {
	if v.slideshowTimer == nil {
		v.slideshowTimer = v.clock.AfterFunc(v.slideshowInterval, v.slideshowTick)
	} else {
		v.slideshowTimer.Reset(v.slideshowInterval)
	}
}

func (v *Viewer) slideshowTick() {
	if !v.open || !v.slideshowOn {
		return
	}
	// Navigate re-arms the timer for the next tick.
	v.Navigate(1)
}

// PointerMoved accumulates Euclidean pointer distance; crossing the
// threshold shows the controls and restarts the auto-hide timer.
func (v *Viewer) PointerMoved(x float64, y float64) {
	if !v.open {
		return
	}
	if !v.havePointer {
		v.havePointer = true
		v.lastX, v.lastY = x, y
		return
	}
	v.pointerDist += math.Hypot(x-v.lastX, y-v.lastY)
	v.lastX, v.lastY = x, y
	if v.pointerDist >= PointerShowThreshold {
		v.pointerDist = 0
		v.showControls()
	}
}

// Touched handles an explicit touch: show controls, restart auto-hide.
func (v *Viewer) Touched() {
	if v.open {
		v.showControls()
	}
}

// ControlsVisible reports the control overlay state.
func (v *Viewer) ControlsVisible() bool { return v.controlsVisible }

// Wheel accumulates signed scroll delta and performs one navigation
// step per threshold crossing, so a single physical gesture cannot
// trigger a burst of steps.
func (v *Viewer) Wheel(delta float64) {
	if !v.open {
		return
	}
	v.wheelAccum += delta
	switch {
	case v.wheelAccum >= WheelStepThreshold:
		v.wheelAccum = 0
		v.Navigate(1)
	case v.wheelAccum <= -WheelStepThreshold:
		v.wheelAccum = 0
		v.Navigate(-1)
	}
}

func (v *Viewer) showControls() {
	v.controlsVisible = true
	if v.hideTimer == nil {
		v.hideTimer = v.clock.AfterFunc(ControlsHideDelay, func() { v.controlsVisible = false })
	} else {
		v.hideTimer.Reset(ControlsHideDelay)
	}
}

func (v *Viewer) cancelTimers() {
	if v.slideshowTimer != nil {
		v.slideshowTimer.Stop()
	}
	if v.hideTimer != nil {
		v.hideTimer.Stop()
	}
}

func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
