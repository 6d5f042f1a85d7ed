// Package location obtains one-off position fixes from the operating system.
package location

import (
	"context"
	"errors"
	"sync"

	"github.com/paulmach/orb"
)

var ErrPermissionDenied = errors.New("location permission denied")

type Status int

const (
	NotDetermined Status = iota
	AuthorizedAlways
	AuthorizedWhenInUse
	Denied
	Restricted
)

func (s Status) String() string {
	switch s {
	case AuthorizedAlways:
		return "Authorized Always"
	case AuthorizedWhenInUse:
		return "Authorized When In Use"
	case Denied:
		return "Denied"
	case Restricted:
		return "Restricted"
	default:
		return "Not Determined"
	}
}

func (s Status) Authorized() bool {
	return s == AuthorizedAlways || s == AuthorizedWhenInUse
}

// Accuracy is the precision requested for a fix.
type Accuracy int

const (
	// HundredMeters is used for scheduled polling.
	HundredMeters Accuracy = iota
	// Best is used for manual refreshes.
	Best
)

func (a Accuracy) String() string {
	if a == Best {
		return "best"
	}
	return "hundred_meters"
}

type Provider interface {
	Authorization() Status
	RequestAuthorization(ctx context.Context) error
	// Locate returns a single fix. It returns ErrPermissionDenied (possibly
	// wrapped) when the user has refused access.
	Locate(ctx context.Context, acc Accuracy) (orb.Point, error)
	Close() error
}

// statusTracker records the authorization state observed through the
// results of Locate calls, for platforms that have no query API.
type statusTracker struct {
	mu     sync.Mutex
	status Status
}

func (t *statusTracker) get() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *statusTracker) observe(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case err == nil:
		t.status = AuthorizedAlways
	case errors.Is(err, ErrPermissionDenied):
		t.status = Denied
	}
}
