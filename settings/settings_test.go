package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muteonloc/zone"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadLegacyArray(t *testing.T) {
	path := writeFile(t, `[{"address": "1 Main St", "radius": 120}, {"address": "Office", "radius": 50}]`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.False(t, f.Settings.IsActive)
	assert.Equal(t, DefaultInterval, f.Settings.CheckInterval)
	assert.Equal(t, []zone.Zone{{Address: "1 Main St", Radius: 120}, {Address: "Office", Radius: 50}}, f.Locations)
}

func TestLoadFullFormat(t *testing.T) {
	path := writeFile(t, `{
  "locations": [{"address": "Gym", "radius": 80}],
  "settings": {"check_interval": 900, "is_active": true}
}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.True(t, f.Settings.IsActive)
	assert.Equal(t, 900, f.Settings.CheckInterval)
	assert.Len(t, f.Locations, 1)
}

func TestLoadMissingSettingsObject(t *testing.T) {
	path := writeFile(t, `{"locations": [{"address": "Gym", "radius": 80}]}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), f.Settings)
}

func TestLoadClampsShortInterval(t *testing.T) {
	path := writeFile(t, `{"locations": [], "settings": {"check_interval": 5, "is_active": false}}`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MinInterval, f.Settings.CheckInterval)
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, f.Locations)
	assert.Equal(t, Defaults(), f.Settings)
}

func TestLoadCorrupt(t *testing.T) {
	path := writeFile(t, `{"locations": [`)

	f, err := Load(path)
	require.Error(t, err)
	assert.Empty(t, f.Locations)
	assert.Equal(t, Defaults(), f.Settings)
}

func TestSaveRoundTripUpgradesLegacy(t *testing.T) {
	path := writeFile(t, `[{"address": "Home", "radius": 30}]`)

	f, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Save(path, f))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "locations")
	assert.Contains(t, raw, "settings")

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestSaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	require.NoError(t, Save(path, File{Settings: Defaults()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"locations": []`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestResolvePath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("MUTEONLOC_CONFIG", "/env/path.json")
		got, err := ResolvePath("/flag/path.json")
		require.NoError(t, err)
		assert.Equal(t, "/flag/path.json", got)
	})
	t.Run("env", func(t *testing.T) {
		t.Setenv("MUTEONLOC_CONFIG", "/env/path.json")
		got, err := ResolvePath("")
		require.NoError(t, err)
		assert.Equal(t, "/env/path.json", got)
	})
	t.Run("default", func(t *testing.T) {
		t.Setenv("MUTEONLOC_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		t.Setenv("HOME", "/home/u")
		got, err := ResolvePath("")
		require.NoError(t, err)
		assert.Equal(t, FileName, filepath.Base(got))
		assert.Equal(t, "muteonloc", filepath.Base(filepath.Dir(got)))
	})
}
