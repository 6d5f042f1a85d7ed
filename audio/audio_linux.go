//go:build linux

package audio

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

const defaultSink = "@DEFAULT_SINK@"

type pulseMixer struct {
	mu     sync.Mutex
	client *pulse.Client
}

func NewMixer() (Mixer, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("muteonloc"))
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseMixer{client: c}, nil
}

func (p *pulseMixer) Muted() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var info proto.GetSinkInfoReply
	err := p.client.RawRequest(&proto.GetSinkInfo{
		SinkIndex: proto.Undefined,
		SinkName:  defaultSink,
	}, &info)
	if err != nil {
		return false, fmt.Errorf("pulse sink info: %w", err)
	}
	return info.Mute, nil
}

func (p *pulseMixer) SetMuted(muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.client.RawRequest(&proto.SetSinkMute{
		SinkIndex: proto.Undefined,
		SinkName:  defaultSink,
		Mute:      muted,
	}, nil)
	if err != nil {
		return fmt.Errorf("pulse set mute: %w", err)
	}
	return nil
}

func (p *pulseMixer) Close() {
	p.client.Close()
}
