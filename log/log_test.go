package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("MUTEONLOC_LOG_PATH", "/tmp/muteonloc-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/muteonloc-env-log" {
		t.Errorf("got %q, want /tmp/muteonloc-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("MUTEONLOC_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "muteonloc") {
		t.Errorf("default directory %q should be app specific", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "mute_log.txt"} {
		path := filepath.Join(tmp, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestMuteChangeLedger(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	MuteChange("mute", "entered Office")
	MuteChange("unmute", "manual")

	data, err := os.ReadFile(filepath.Join(tmp, "mute_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d ledger lines, want 2: %q", len(lines), data)
	}
	// format: "2006-01-02 15:04:05\t[pid]\taction\treason"
	fields := strings.Split(lines[0], "\t")
	if len(fields) != 4 || fields[2] != "mute" || fields[3] != "entered Office" {
		t.Errorf("unexpected ledger line: %q", lines[0])
	}
}

func TestEventsWrittenToDiagnostics(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	ZoneCheck(47.1, 8.5, true, "Office", 12.5, 0, true)
	Geocoded("Office", 47.1, 8.5)
	GeocodeFailed("Nowhere", errors.New("not found"), 30*time.Second)
	LocationError(errors.New("denied"), false)
	MuteSync(true)
	SessionStart(2, 300, true)
	SessionEnd(2, false)

	data, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"zone_check", "geocoded", "geocode_failed", "location_error", "mute_sync", "session_start", "session_end", "zone=Office"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("diagnostics log missing %q", want)
		}
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Close()
	// must not panic or create files
	Info("x")
	MuteChange("mute", "test")
	ZoneCheck(0, 0, false, "", 0, 1, false)
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
