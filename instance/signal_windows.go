//go:build windows

package instance

import "os"

var signals = []os.Signal{os.Interrupt}
