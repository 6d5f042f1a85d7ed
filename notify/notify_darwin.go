//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

type osascript struct{}

func newBackend() (backend, error) { return osascript{}, nil }

func (osascript) Send(title, message string) error {
	script := fmt.Sprintf("display notification %s with title %s subtitle %s",
		Quote(message), Quote(appName), Quote(title))
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (osascript) Close() error { return nil }
