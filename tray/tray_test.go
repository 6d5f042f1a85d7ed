package tray

import (
	"testing"

	"muteonloc/zone"
)

func TestTitles(t *testing.T) {
	if got := statusTitle(true); got != "Status: Active" {
		t.Errorf("statusTitle(true) = %q", got)
	}
	if got := statusTitle(false); got != "Status: Inactive" {
		t.Errorf("statusTitle(false) = %q", got)
	}
	if got := muteTitle(true); got != "Unmute Audio" {
		t.Errorf("muteTitle(true) = %q", got)
	}
	if got := muteTitle(false); got != "Mute Audio" {
		t.Errorf("muteTitle(false) = %q", got)
	}
	if got := locationTitle("47.3769, 8.5417"); got != "Location: 47.3769, 8.5417" {
		t.Errorf("locationTitle = %q", got)
	}
	if got := zoneTitle(zone.Zone{Address: "Main St 1", Radius: 150}); got != "Main St 1 (150m)" {
		t.Errorf("zoneTitle = %q", got)
	}
	if got := tooltip(true, true); got != "muteonloc: active, muted" {
		t.Errorf("tooltip = %q", got)
	}
}

func TestPromptScriptQuotes(t *testing.T) {
	got := promptScript("Add Location", `Say "hi"`, `C:\x`)
	want := `text returned of (display dialog "Say \"hi\"" default answer "C:\\x" with title "Add Location")`
	if got != want {
		t.Errorf("promptScript =\n%s\nwant\n%s", got, want)
	}
}

func TestPresenterRecordsState(t *testing.T) {
	var p Presenter
	p.Status(true)
	p.MuteState(true)
	p.PermissionHint(true)
	p.Location("Updating...")
	p.Interval(600)
	p.Zones([]zone.Zone{{Address: "A", Radius: 10}, {Address: "B", Radius: 20}})

	mu.Lock()
	defer mu.Unlock()
	if !active || !muted || !denied {
		t.Errorf("state = active %v muted %v denied %v", active, muted, denied)
	}
	if locText != "Updating..." || interval != 600 || len(zones) != 2 {
		t.Errorf("locText %q interval %d zones %d", locText, interval, len(zones))
	}
}

func TestZoneAt(t *testing.T) {
	Presenter{}.Zones([]zone.Zone{{Address: "A", Radius: 10}})
	if z, ok := zoneAt(0); !ok || z.Address != "A" {
		t.Errorf("zoneAt(0) = %v, %v", z, ok)
	}
	if _, ok := zoneAt(1); ok {
		t.Error("zoneAt(1) should be out of range")
	}
}

func TestMenuActions(t *testing.T) {
	var deleted, seconds int
	var login bool
	SetActions(Actions{
		DeleteZone:  func(i int) error { deleted = i; return nil },
		SetInterval: func(s int) error { seconds = s; return nil },
		Login:       func(on bool) error { login = on; return nil },
	})
	t.Cleanup(func() { SetActions(Actions{}) })

	deleteZone(2)
	pickInterval(900)
	if got := toggleLogin(true); !got {
		t.Error("toggleLogin(true) should report enabled")
	}
	if deleted != 2 || seconds != 900 || !login {
		t.Errorf("deleted %d seconds %d login %v", deleted, seconds, login)
	}
}
