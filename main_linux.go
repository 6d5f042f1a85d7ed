//go:build linux

package main

// The tray is darwin only, so nothing here needs the main thread.
func main() {
	run()
}
