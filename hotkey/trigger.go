package hotkey

import (
	"context"
	"time"
)

// Watch calls fn once per press of hk until ctx is done. Presses closer
// together than debounce are ignored so key repeat cannot toggle twice.
func Watch(ctx context.Context, hk Hotkey, debounce time.Duration, fn func()) {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			now := time.Now()
			if !last.IsZero() && now.Sub(last) < debounce {
				continue
			}
			last = now
			fn()
		case <-hk.Keyup():
		}
	}
}
