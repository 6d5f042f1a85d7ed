package doctor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"muteonloc/audio"
	"muteonloc/geocode"
	"muteonloc/hotkey"
	"muteonloc/location"
	"muteonloc/monitor"
)

// DefaultAddress is geocoded when the user enters nothing.
const DefaultAddress = "1600 Amphitheatre Parkway, Mountain View, CA"

type Config struct {
	Location location.Provider
	Geocoder geocode.Geocoder
	Mixer    audio.Mixer
	Hotkey   hotkey.Hotkey // nil skips the shortcut check

	// Diagnose reports whether the shortcut can be delivered at all.
	Diagnose func() (string, error)

	// Copy and Read exercise the clipboard; nil skips the check.
	Copy func(string) error
	Read func() (string, error)

	In  io.Reader
	Out io.Writer

	FixTimeout     time.Duration
	GeocodeTimeout time.Duration
	HotkeyTimeout  time.Duration
}

func (c *Config) setDefaults() {
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.FixTimeout <= 0 {
		c.FixTimeout = 30 * time.Second
	}
	if c.GeocodeTimeout <= 0 {
		c.GeocodeTimeout = monitor.DefaultGeocodeTimeout
	}
	if c.HotkeyTimeout <= 0 {
		c.HotkeyTimeout = 10 * time.Second
	}
}

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg Config) int {
	resetTerminal()
	setupInterruptHandler()
	return Check(cfg)
}

// Check runs every check in order. A failing check does not stop the ones
// after it.
func Check(cfg Config) int {
	cfg.setDefaults()
	d := &doctor{cfg: cfg, in: bufio.NewReader(cfg.In)}

	d.printf("muteonloc doctor - system diagnostics\n")
	d.printf("=====================================\n")

	checks := []struct {
		name string
		run  func() bool
		skip bool
	}{
		{"Location", d.checkLocation, cfg.Location == nil},
		{"Mute control", d.checkMute, cfg.Mixer == nil},
		{"Geocoding", d.checkGeocode, cfg.Geocoder == nil},
		{"Mute shortcut", d.checkHotkey, cfg.Hotkey == nil},
		{"Clipboard", d.checkClipboard, cfg.Copy == nil || cfg.Read == nil},
	}

	allPass := true
	for i, c := range checks {
		d.printf("\n[%d/%d] %s\n", i+1, len(checks), c.name)
		if c.skip {
			d.printf("  SKIP\n")
			continue
		}
		if !c.run() {
			allPass = false
		}
	}

	d.printf("\n")
	if allPass {
		d.printf("All checks passed!\n")
		return 0
	}
	d.printf("Some checks failed. See details above.\n")
	return 1
}

type doctor struct {
	cfg Config
	in  *bufio.Reader
}

func (d *doctor) printf(format string, args ...any) {
	fmt.Fprintf(d.cfg.Out, format, args...)
}

func (d *doctor) checkLocation() bool {
	p := d.cfg.Location
	st := p.Authorization()
	d.printf("  Authorization: %s\n", st)
	if st == location.NotDetermined {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.FixTimeout)
		err := p.RequestAuthorization(ctx)
		cancel()
		if err != nil && !errors.Is(err, location.ErrPermissionDenied) {
			d.printf("  Warning: authorization request: %v\n", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.FixTimeout)
	defer cancel()
	pos, err := p.Locate(ctx, location.Best)
	if errors.Is(err, location.ErrPermissionDenied) {
		d.printf("  FAIL: location access denied\n")
		d.printf("  Enable it in the system privacy settings and run again.\n")
		return false
	}
	if err != nil {
		d.printf("  FAIL: %v\n", err)
		return false
	}
	d.printf("  PASS: position %s\n", monitor.FormatPosition(pos))
	return true
}

// checkMute flips the system mute and restores it.
func (d *doctor) checkMute() bool {
	m := d.cfg.Mixer
	orig, err := m.Muted()
	if err != nil {
		d.printf("  FAIL: read mute state: %v\n", err)
		return false
	}
	d.printf("  Currently muted: %t\n", orig)

	if err := m.SetMuted(!orig); err != nil {
		d.printf("  FAIL: set mute: %v\n", err)
		return false
	}
	got, err := m.Muted()
	restoreErr := m.SetMuted(orig)
	if err != nil {
		d.printf("  FAIL: read back mute state: %v\n", err)
		return false
	}
	if got == orig {
		d.printf("  FAIL: mute state did not change\n")
		return false
	}
	if restoreErr != nil {
		d.printf("  FAIL: restore mute state: %v\n", restoreErr)
		return false
	}
	d.printf("  PASS: mute toggled and restored\n")
	return true
}

func (d *doctor) checkGeocode() bool {
	d.printf("  Using %s\n", d.cfg.Geocoder.Name())
	d.printf("  Address to look up [%s]: ", DefaultAddress)
	addr, _ := d.in.ReadString('\n')
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = DefaultAddress
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.GeocodeTimeout)
	defer cancel()
	pos, err := d.cfg.Geocoder.Resolve(ctx, addr)
	if err != nil {
		d.printf("  FAIL: %v\n", err)
		return false
	}
	d.printf("  PASS: %s -> %s\n", addr, monitor.FormatPosition(pos))
	return true
}

func (d *doctor) checkHotkey() bool {
	hk := d.cfg.Hotkey
	if d.cfg.Diagnose != nil {
		msg, err := d.cfg.Diagnose()
		if err != nil {
			d.printf("  FAIL: %v\n", err)
			return false
		}
		d.printf("  %s\n", msg)
	}
	if err := hk.Register(); err != nil {
		d.printf("  FAIL: could not register hotkey: %v\n", err)
		return false
	}
	defer hk.Unregister()
	d.printf("  Press %s...\n", hotkey.Combo)

	select {
	case <-hk.Keydown():
		d.printf("  PASS: hotkey detected\n")
		select {
		case <-hk.Keyup():
		case <-time.After(5 * time.Second):
		}
		// the hotkey library may leave the terminal in raw mode
		resetTerminal()
		return true
	case <-time.After(d.cfg.HotkeyTimeout):
		d.printf("  FAIL: timeout waiting for hotkey\n")
		return false
	}
}

func (d *doctor) checkClipboard() bool {
	const probe = "muteonloc-doctor-test"
	prev, _ := d.cfg.Read()
	if err := d.cfg.Copy(probe); err != nil {
		d.printf("  FAIL: clipboard copy failed: %v\n", err)
		return false
	}
	got, err := d.cfg.Read()
	if prev != "" {
		d.cfg.Copy(prev)
	}
	if err != nil {
		d.printf("  FAIL: could not read clipboard: %v\n", err)
		return false
	}
	if got != probe {
		d.printf("  FAIL: clipboard returned %q, want %q\n", got, probe)
		return false
	}
	d.printf("  PASS: clipboard round trip\n")
	return true
}

