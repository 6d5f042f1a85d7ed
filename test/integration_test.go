//go:build integration

package test_test

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("MUTEONLOC_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "MUTEONLOC_TEST_BIN not set; build the binary and point it there")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

type run struct {
	logDir   string
	settings string
}

func runApp(t *testing.T, settings, stdin string) run {
	t.Helper()
	r := run{logDir: t.TempDir(), settings: settings}
	if r.settings == "" {
		r.settings = filepath.Join(t.TempDir(), "target_locations.json")
	}

	cmd := exec.Command(testBinary, "-logpath", r.logDir, "-config", r.settings, "-test")
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("muteonloc exited with error: %v\noutput: %s", err, out)
	}
	return r
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func ledger(t *testing.T, r run) []string {
	t.Helper()
	text := strings.TrimSpace(readFile(t, filepath.Join(r.logDir, "mute_log.txt")))
	if text == "" {
		return nil
	}
	var actions []string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) >= 3 {
			actions = append(actions, fields[2])
		}
	}
	return actions
}

func TestEnterAndLeaveZone(t *testing.T) {
	r := runApp(t, "", cmds(
		"GEO 47.3769 8.5417 Office",
		"ADD 150 Office",
		"POS 47.3770 8.5418",
		"ACTIVATE",
		"WAIT_MUTED",
		"POS 47.4000 8.6000",
		"CHECK",
		"WAIT_UNMUTED",
		"QUIT",
	))

	got := strings.Join(ledger(t, r), ",")
	if got != "mute,unmute" {
		t.Errorf("ledger actions = %q, want mute,unmute", got)
	}
	diag := readFile(t, filepath.Join(r.logDir, "diagnostics_log.txt"))
	for _, want := range []string{"session_start", "geocoded", "zone_check", "session_end"} {
		if !strings.Contains(diag, want) {
			t.Errorf("diagnostics missing %q", want)
		}
	}
}

func TestManualOverrideReasserted(t *testing.T) {
	r := runApp(t, "", cmds(
		"GEO 47.3769 8.5417 Office",
		"ADD 150 Office",
		"POS 47.3769 8.5417",
		"ACTIVATE",
		"WAIT_MUTED",
		"MUTE",
		"WAIT_UNMUTED",
		"CHECK",
		"WAIT_MUTED",
		"QUIT",
	))

	got := strings.Join(ledger(t, r), ",")
	if got != "mute,unmute,mute" {
		t.Errorf("ledger actions = %q, want mute,unmute,mute", got)
	}
}

func TestExternalMuteReconciled(t *testing.T) {
	r := runApp(t, "", cmds(
		"EXTERNAL 1",
		"SYNC",
		"WAIT_MUTED",
		"QUIT",
	))
	if got := ledger(t, r); len(got) != 0 {
		t.Errorf("reconcile must not issue commands, ledger = %v", got)
	}
	if diag := readFile(t, filepath.Join(r.logDir, "diagnostics_log.txt")); !strings.Contains(diag, "mute_sync") {
		t.Error("diagnostics missing mute_sync")
	}
}

func TestLegacySettingsUpgraded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target_locations.json")
	legacy := `[{"address": "Office", "radius": 200}]`
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	runApp(t, path, cmds("QUIT"))

	var f struct {
		Locations []struct {
			Address string `json:"address"`
			Radius  int    `json:"radius"`
		} `json:"locations"`
		Settings struct {
			CheckInterval int  `json:"check_interval"`
			IsActive      bool `json:"is_active"`
		} `json:"settings"`
	}
	if err := json.Unmarshal([]byte(readFile(t, path)), &f); err != nil {
		t.Fatalf("settings not rewritten as an object: %v", err)
	}
	if len(f.Locations) != 1 || f.Locations[0].Address != "Office" || f.Locations[0].Radius != 200 {
		t.Errorf("locations = %+v", f.Locations)
	}
	if f.Settings.IsActive || f.Settings.CheckInterval != 300 {
		t.Errorf("settings = %+v, want inactive with 300s interval", f.Settings)
	}
}

func TestZoneMutationsPersist(t *testing.T) {
	r := runApp(t, "", cmds(
		"ADD 100 Home",
		"ADD 250 Gym",
		"DELETE 0",
		"ACTIVATE",
		"QUIT",
	))

	s := readFile(t, r.settings)
	if strings.Contains(s, "Home") || !strings.Contains(s, "Gym") {
		t.Errorf("settings after delete:\n%s", s)
	}
	if !strings.Contains(s, `"is_active": true`) {
		t.Errorf("activation not persisted:\n%s", s)
	}
}
