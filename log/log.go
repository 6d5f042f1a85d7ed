package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	muteFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		if !filepath.IsAbs(flagPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, flagPath), nil
		}
		return flagPath, nil
	}

	// Priority 2: MUTEONLOC_LOG_PATH environment variable
	envPath := os.Getenv("MUTEONLOC_LOG_PATH")
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	mutePath := filepath.Join(dir, "mute_log.txt")
	muteFile, err = os.OpenFile(mutePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if muteFile != nil {
		muteFile.Close()
		muteFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// ZoneCheck logs one evaluation. zone is the matched zone when inside and the
// nearest resolved zone otherwise.
func ZoneCheck(lat, lon float64, inside bool, zone string, distanceM float64, missing int, active bool) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Bool("inside", inside).
		Bool("active", active)
	if zone != "" {
		ev = ev.Str("zone", zone).Float64("distance_m", distanceM)
	}
	if missing > 0 {
		ev = ev.Int("unresolved", missing)
	}
	ev.Msg("zone_check")
}

func Geocoded(address string, lat, lon float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("address", address).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("geocoded")
}

func GeocodeFailed(address string, err error, retryIn time.Duration) {
	if !logReady {
		return
	}
	diagLog.Warn().
		Str("address", address).
		Err(err).
		Dur("retry_in", retryIn).
		Msg("geocode_failed")
}

func LocationError(err error, manual bool) {
	if !logReady {
		return
	}
	diagLog.Warn().Err(err).Bool("manual", manual).Msg("location_error")
}

func MuteSync(muted bool) {
	if !logReady {
		return
	}
	diagLog.Info().Bool("muted", muted).Msg("mute_sync")
}

// MuteChange records a mute command in the diagnostics log and appends a
// line to mute_log.txt.
func MuteChange(action, reason string) {
	if !logReady {
		return
	}
	diagLog.Info().Str("action", action).Str("reason", reason).Msg("mute_change")

	logMu.Lock()
	defer logMu.Unlock()
	if muteFile == nil {
		return
	}
	line := fmt.Sprintf("%s\t[%d]\t%s\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, action, reason)
	muteFile.WriteString(line)
}

func SessionStart(zones, intervalS int, active bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("zones", zones).
		Int("interval_s", intervalS).
		Bool("active", active).
		Msg("session_start")
}

func SessionEnd(zones int, muted bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("zones", zones).
		Bool("muted", muted).
		Msg("session_end")
}
