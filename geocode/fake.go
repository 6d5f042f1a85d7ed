package geocode

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
)

// Fake resolves from a fixed table. Unknown addresses return ErrNoResult.
// When Hold is set, Resolve blocks until Release is called for the address.
type Fake struct {
	mu      sync.Mutex
	table   map[string]orb.Point
	calls   map[string]int
	gates   map[string]chan struct{}
	Hold    bool
	FailErr error
}

func NewFake(table map[string]orb.Point) *Fake {
	t := make(map[string]orb.Point, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &Fake{table: t, calls: make(map[string]int), gates: make(map[string]chan struct{})}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Set(address string, p orb.Point) {
	f.mu.Lock()
	f.table[address] = p
	f.mu.Unlock()
}

func (f *Fake) gate(address string) chan struct{} {
	g, ok := f.gates[address]
	if !ok {
		g = make(chan struct{})
		f.gates[address] = g
	}
	return g
}

// Release unblocks a held Resolve for address.
func (f *Fake) Release(address string) {
	f.mu.Lock()
	g := f.gate(address)
	f.mu.Unlock()
	select {
	case <-g:
	default:
		close(g)
	}
}

func (f *Fake) Resolve(ctx context.Context, address string) (orb.Point, error) {
	f.mu.Lock()
	f.calls[address]++
	hold := f.Hold
	g := f.gate(address)
	f.mu.Unlock()

	if hold {
		select {
		case <-g:
		case <-ctx.Done():
			return orb.Point{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailErr != nil {
		return orb.Point{}, f.FailErr
	}
	p, ok := f.table[address]
	if !ok {
		return orb.Point{}, fmt.Errorf("fake %q: %w", address, ErrNoResult)
	}
	return p, nil
}

func (f *Fake) Calls(address string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[address]
}
