//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// The menu bar and hotkey libraries need the main thread.
func main() {
	mainthread.Init(run)
}
