package location

import (
	"context"
	"sync"

	"github.com/paulmach/orb"
)

// Fake is a scripted Provider for tests and the doctor.
type Fake struct {
	mu       sync.Mutex
	pos      orb.Point
	err      error
	status   Status
	calls    []Accuracy
	requests int
	closed   bool
}

func NewFake(pos orb.Point) *Fake {
	return &Fake{pos: pos, status: AuthorizedAlways}
}

// Set changes the position returned by the next Locate call and clears any
// scripted error.
func (f *Fake) Set(pos orb.Point) {
	f.mu.Lock()
	f.pos = pos
	f.err = nil
	f.mu.Unlock()
}

func (f *Fake) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *Fake) SetStatus(s Status) {
	f.mu.Lock()
	f.status = s
	f.mu.Unlock()
}

func (f *Fake) Authorization() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *Fake) RequestAuthorization(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return nil
}

func (f *Fake) Locate(ctx context.Context, acc Accuracy) (orb.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, acc)
	if err := ctx.Err(); err != nil {
		return orb.Point{}, err
	}
	if f.err != nil {
		return orb.Point{}, f.err
	}
	return f.pos, nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Calls returns the accuracy of every Locate call so far.
func (f *Fake) Calls() []Accuracy {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Accuracy(nil), f.calls...)
}

func (f *Fake) AuthRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
