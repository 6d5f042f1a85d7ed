//go:build !darwin && !linux

package location

import "errors"

func NewSystem() (Provider, error) {
	return NewIPProvider(), nil
}

func OpenSettings() error {
	return errors.New("no location settings on this platform")
}
