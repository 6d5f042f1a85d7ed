//go:build darwin

package tray

import (
	"os/exec"
	"strings"

	"muteonloc/log"
)

// prompt asks for a line of text. ok is false when the user cancels.
func prompt(title, message, def string) (string, bool) {
	out, err := exec.Command("osascript", "-e", promptScript(title, message, def)).Output()
	if err != nil {
		return "", false
	}
	return strings.TrimRight(string(out), "\n"), true
}

func showAlert(title, message string) {
	if err := exec.Command("osascript", "-e", alertScript(title, message)).Run(); err != nil {
		log.Warnf("alert %q: %v", title, err)
	}
}
