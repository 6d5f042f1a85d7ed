//go:build linux

package login

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const desktopName = "muteonloc.desktop"

// autostartPath follows the XDG autostart spec.
func autostartPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "autostart", desktopName), nil
}

func Enabled() bool {
	path, err := autostartPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func Enable() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	path, err := autostartPath()
	if err != nil {
		return fmt.Errorf("resolve autostart dir: %w", err)
	}

	carried := carriedEnv()
	keys := make([]string, 0, len(carried))
	for k := range carried {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	exec := quoteExec(exe)
	if len(keys) > 0 {
		parts := []string{"env"}
		for _, k := range keys {
			parts = append(parts, quoteExec(k+"="+carried[k]))
		}
		exec = strings.Join(parts, " ") + " " + exec
	}

	entry := fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=muteonloc
Comment=Mute audio at chosen locations
Exec=%s
X-GNOME-Autostart-enabled=true
NoDisplay=true
`, exec)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(entry), 0600); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func Disable() error {
	path, err := autostartPath()
	if err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}

// quoteExec quotes an Exec argument per the desktop entry spec.
func quoteExec(arg string) string {
	if !strings.ContainsAny(arg, " \t\"'\\$`") {
		return arg
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(arg) + `"`
}
