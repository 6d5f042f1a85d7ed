// Package hotkey listens for the global mute shortcut.
package hotkey

// Combo is the shortcut in display form.
const Combo = "Ctrl+Shift+M"

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
	Keyup() <-chan struct{}
}
