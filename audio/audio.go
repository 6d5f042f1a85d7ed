// Package audio reads and sets the system output mute state.
package audio

import "errors"

var ErrUnsupported = errors.New("mute control not supported on this platform")

// Mixer controls the default output device.
type Mixer interface {
	Muted() (bool, error)
	SetMuted(muted bool) error
	Close()
}
