package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"muteonloc/zone"
)

const (
	FileName = "target_locations.json"

	DefaultInterval = 300 // seconds
	MinInterval     = 60
)

// Settings is the persisted monitoring configuration.
type Settings struct {
	CheckInterval int  `json:"check_interval"`
	IsActive      bool `json:"is_active"`
}

func Defaults() Settings {
	return Settings{CheckInterval: DefaultInterval}
}

// File is the on-disk document.
type File struct {
	Locations []zone.Zone `json:"locations"`
	Settings  Settings    `json:"settings"`
}

func ResolvePath(flagPath string) (string, error) {
	if flagPath != "" {
		return filepath.Abs(flagPath)
	}
	if env := os.Getenv("MUTEONLOC_CONFIG"); env != "" {
		return filepath.Abs(env)
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "muteonloc"), nil
}

// Load reads the settings file at path. A missing file yields defaults with
// no zones and a nil error. A bare JSON array is read as the zone list with
// default settings. On a parse error the defaults are returned along with
// the error.
func Load(path string) (File, error) {
	f := File{Settings: Defaults()}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("read settings: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var zones []zone.Zone
		if err := json.Unmarshal(data, &zones); err != nil {
			return File{Settings: Defaults()}, fmt.Errorf("parse settings: %w", err)
		}
		f.Locations = zones
		return f, nil
	}

	// settings may be missing from older files; unmarshal over defaults
	if err := json.Unmarshal(data, &f); err != nil {
		return File{Settings: Defaults()}, fmt.Errorf("parse settings: %w", err)
	}
	if f.Settings.CheckInterval < MinInterval {
		f.Settings.CheckInterval = MinInterval
	}
	return f, nil
}

// Save writes f to path through a temp file and rename so a crash never
// leaves a truncated file behind.
func Save(path string, f File) error {
	if f.Locations == nil {
		f.Locations = []zone.Zone{}
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".muteonloc-settings-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
