package doctor

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"muteonloc/audio"
	"muteonloc/geocode"
	"muteonloc/hotkey"
	"muteonloc/location"
)

type memClipboard struct{ text string }

func (m *memClipboard) Copy(s string) error   { m.text = s; return nil }
func (m *memClipboard) Read() (string, error) { return m.text, nil }

func testConfig(out *bytes.Buffer, input string) (Config, *audio.FakeMixer, *location.Fake) {
	mixer := audio.NewFakeMixer(false)
	loc := location.NewFake(orb.Point{8.5417, 47.3769})
	gc := geocode.NewFake(map[string]orb.Point{
		DefaultAddress:             {-122.0842, 37.4220},
		"Bahnhofstrasse 1, Zurich": {8.5390, 47.3667},
	})
	hk := hotkey.NewFake()
	hk.SimKeydown()
	hk.SimKeyup()
	cb := &memClipboard{text: "previous"}
	return Config{
		Location:      loc,
		Geocoder:      gc,
		Mixer:         mixer,
		Hotkey:        hk,
		Copy:          cb.Copy,
		Read:          cb.Read,
		In:            strings.NewReader(input),
		Out:           out,
		HotkeyTimeout: time.Second,
	}, mixer, loc
}

func TestCheckAllPass(t *testing.T) {
	var out bytes.Buffer
	cfg, mixer, _ := testConfig(&out, "\n")

	if code := Check(cfg); code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	if mixer.State() {
		t.Error("mute state not restored")
	}
	if n := strings.Count(out.String(), "PASS"); n != 5 {
		t.Errorf("got %d PASS lines, want 5:\n%s", n, out.String())
	}
	if !strings.Contains(out.String(), "47.3769, 8.5417") {
		t.Errorf("position missing from output:\n%s", out.String())
	}
}

func TestCheckCustomAddress(t *testing.T) {
	var out bytes.Buffer
	cfg, _, _ := testConfig(&out, "Bahnhofstrasse 1, Zurich\n")
	cfg.Hotkey = nil

	if code := Check(cfg); code != 0 {
		t.Fatalf("exit code %d, output:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "Bahnhofstrasse 1, Zurich -> 47.3667, 8.5390") {
		t.Errorf("geocode result missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "SKIP") {
		t.Errorf("hotkey check should be skipped:\n%s", out.String())
	}
}

func TestCheckFailuresContinue(t *testing.T) {
	var out bytes.Buffer
	cfg, mixer, loc := testConfig(&out, "\n")
	loc.Fail(location.ErrPermissionDenied)
	mixer.WriteErr = errors.New("no sink")

	if code := Check(cfg); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	s := out.String()
	if !strings.Contains(s, "location access denied") {
		t.Errorf("missing denied message:\n%s", s)
	}
	if !strings.Contains(s, "set mute: no sink") {
		t.Errorf("missing mute failure:\n%s", s)
	}
	// later checks still run
	if !strings.Contains(s, "PASS: clipboard round trip") {
		t.Errorf("clipboard check did not run:\n%s", s)
	}
}

func TestCheckHotkeyTimeout(t *testing.T) {
	var out bytes.Buffer
	cfg, _, _ := testConfig(&out, "\n")
	cfg.Hotkey = hotkey.NewFake()
	cfg.HotkeyTimeout = 20 * time.Millisecond

	if code := Check(cfg); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), "timeout waiting for hotkey") {
		t.Errorf("missing timeout message:\n%s", out.String())
	}
}

func TestCheckHotkeyDiagnoseFails(t *testing.T) {
	var out bytes.Buffer
	cfg, _, _ := testConfig(&out, "\n")
	cfg.Diagnose = func() (string, error) { return "", errors.New("no keyboard devices found") }

	if code := Check(cfg); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(out.String(), "FAIL: no keyboard devices found") {
		t.Errorf("missing diagnose failure:\n%s", out.String())
	}
}
