//go:build darwin

package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

type osascriptMixer struct{}

func NewMixer() (Mixer, error) {
	if _, err := exec.LookPath("osascript"); err != nil {
		return nil, fmt.Errorf("osascript: %w", err)
	}
	return osascriptMixer{}, nil
}

func (osascriptMixer) Muted() (bool, error) {
	out, err := exec.Command("osascript", "-e", "output muted of (get volume settings)").Output()
	if err != nil {
		return false, fmt.Errorf("read mute state: %w", err)
	}
	switch strings.TrimSpace(string(out)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		// "missing value" when the output device has no mute control
		return false, fmt.Errorf("read mute state: unexpected %q", strings.TrimSpace(string(out)))
	}
}

func (osascriptMixer) SetMuted(muted bool) error {
	script := "set volume without output muted"
	if muted {
		script = "set volume with output muted"
	}
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("set mute: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (osascriptMixer) Close() {}
