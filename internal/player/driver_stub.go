//go:build !gstreamer

// Package player renders media URLs through GStreamer. The default
// build carries a stub; enable the gstreamer build tag for playback.
package player

import "errors"

// Driver is a stub when the gstreamer tag is not enabled.
type Driver struct{}

// NewDriver returns an error when the gstreamer build tag is missing.
func NewDriver() (*Driver, error) {
	return nil, errors.New("gstreamer build tag not enabled")
}

func (d *Driver) PlayFile(url string) error        { return errors.New("gstreamer build tag not enabled") }
func (d *Driver) PlayHLS(playlistURL string) error { return errors.New("gstreamer build tag not enabled") }
func (d *Driver) Stop() error                      { return errors.New("gstreamer build tag not enabled") }
func (d *Driver) SetVolume(volume float64) error {
	return errors.New("gstreamer build tag not enabled")
}
func (d *Driver) SetMute(mute bool) error { return errors.New("gstreamer build tag not enabled") }
