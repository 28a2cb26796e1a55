//go:build gstreamer

// Package player renders media URLs through GStreamer. The default
// build carries a stub; enable the gstreamer build tag for playback.
package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gst/go-gst/gst"
)

// Driver plays file and HLS URLs through a playbin pipeline.
type Driver struct {
	mu      sync.Mutex
	volume  float64
	muted   bool
	current *gst.Element
}

var gstInitOnce sync.Once

// NewDriver initializes GStreamer and returns a driver.
func NewDriver() (*Driver, error) {
	gstInitOnce.Do(func() {
		gst.Init(nil)
	})
	return &Driver{volume: 1.0}, nil
}

// PlayFile plays a raw media URL, replacing any current pipeline.
func (d *Driver) PlayFile(url string) error {
	return d.play(url)
}

// PlayHLS plays an HLS playlist URL. playbin handles the manifest
// natively when the hlsdemux element is installed.
func (d *Driver) PlayHLS(playlistURL string) error {
	return d.play(playlistURL)
}

// Stop tears down the current pipeline.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stopCurrentLocked()
}

// SetVolume sets volume (0..1).
func (d *Driver) SetVolume(volume float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.volume = volume
	if d.current != nil {
		_ = d.current.SetProperty("volume", d.currentVolumeLocked())
	}
	return nil
}

// SetMute sets mute state.
func (d *Driver) SetMute(mute bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.muted = mute
	if d.current != nil {
		_ = d.current.SetProperty("volume", d.currentVolumeLocked())
	}
	return nil
}

func (d *Driver) play(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if url == "" {
		return errors.New("url required")
	}

	pipeline, err := gst.ParseLaunch(fmt.Sprintf("playbin uri=%q volume=%0.2f", url, d.currentVolumeLocked()))
	if err != nil {
		return err
	}
	if err := pipeline.SetState(gst.StatePlaying); err != nil {
		return err
	}

	_ = d.stopCurrentLocked()
	d.current = pipeline
	return nil
}

func (d *Driver) stopCurrentLocked() error {
	if d.current == nil {
		return nil
	}
	_ = d.current.SetState(gst.StateNull)
	d.current = nil
	return nil
}

func (d *Driver) currentVolumeLocked() float64 {
	if d.muted {
		return 0
	}
	return d.volume
}
