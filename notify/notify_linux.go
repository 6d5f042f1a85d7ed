//go:build linux

package notify

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest = "org.freedesktop.Notifications"
	notifyPath = "/org/freedesktop/Notifications"
	expireMs   = 5000
)

type dbusNotifier struct {
	mu   sync.Mutex
	conn *dbus.Conn
	last uint32 // replaced by the next notification
}

func newBackend() (backend, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("notify: session bus: %w", err)
	}
	return &dbusNotifier{conn: conn}, nil
}

func (d *dbusNotifier) Send(title, message string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	obj := d.conn.Object(notifyDest, notifyPath)
	call := obj.Call(notifyDest+".Notify", 0,
		appName, d.last, "audio-volume-muted", title, message,
		[]string{}, map[string]dbus.Variant{}, int32(expireMs))
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return call.Store(&d.last)
}

func (d *dbusNotifier) Close() error {
	return d.conn.Close()
}
