package audio

import "sync"

// FakeMixer is an in-memory Mixer. External changes can be simulated with
// SetExternal, which does not count as a command.
type FakeMixer struct {
	mu      sync.Mutex
	muted   bool
	mutes   int
	unmutes int

	ReadErr  error
	WriteErr error
}

func NewFakeMixer(muted bool) *FakeMixer {
	return &FakeMixer{muted: muted}
}

func (f *FakeMixer) Muted() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadErr != nil {
		return false, f.ReadErr
	}
	return f.muted, nil
}

func (f *FakeMixer) SetMuted(muted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if muted {
		f.mutes++
	} else {
		f.unmutes++
	}
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.muted = muted
	return nil
}

func (f *FakeMixer) Close() {}

// SetExternal changes the state as if another application had done it.
func (f *FakeMixer) SetExternal(muted bool) {
	f.mu.Lock()
	f.muted = muted
	f.mu.Unlock()
}

func (f *FakeMixer) State() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.muted
}

// Commands returns the number of mute and unmute commands received.
func (f *FakeMixer) Commands() (mutes, unmutes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mutes, f.unmutes
}
