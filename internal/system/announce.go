package system

import (
	"time"

	"github.com/l1jgo/navigator/internal/core/event"
	coresys "github.com/l1jgo/navigator/internal/core/system"
	"github.com/l1jgo/navigator/internal/nav"
)

// AnnounceSystem collects registry events as they are published and hands
// them to the sink once per tick, after the scan. Phase 3 (Output).
type AnnounceSystem struct {
	pending []nav.Event
	sink    func([]nav.Event)
	sub     *event.Subscription[nav.Event]
}

func NewAnnounceSystem(reg *nav.Registry, sink func([]nav.Event)) *AnnounceSystem {
	s := &AnnounceSystem{sink: sink}
	s.sub = reg.Subscribe(func(ev nav.Event) {
		s.pending = append(s.pending, ev)
	})
	return s
}

func (s *AnnounceSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *AnnounceSystem) Update(_ time.Duration) {
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = nil
	s.sink(batch)
}

// Close stops collecting events.
func (s *AnnounceSystem) Close() {
	s.sub.Cancel()
}
