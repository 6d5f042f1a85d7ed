//go:build !darwin && !linux

package audio

func NewMixer() (Mixer, error) {
	return nil, ErrUnsupported
}
