// Package notify shows desktop notifications.
package notify

const appName = "MuteOnLoc"

// Notifier sends desktop notifications. The zero value is not usable; use New.
type Notifier struct {
	backend
}

// New connects to the platform notification service. On platforms without
// one, Send is a no-op.
func New() (*Notifier, error) {
	b, err := newBackend()
	if err != nil {
		return nil, err
	}
	return &Notifier{backend: b}, nil
}

type backend interface {
	Send(title, message string) error
	Close() error
}
