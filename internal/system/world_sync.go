package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/navigator/internal/core/system"
	"github.com/l1jgo/navigator/internal/world"
)

// ObjectSource lists every object currently standing in the world.
type ObjectSource interface {
	LoadAll(ctx context.Context) ([]world.Object, error)
}

// WorldSyncSystem pulls the object list from its source at a fixed interval
// and reconciles the world state with it. Phase 0 (Input).
type WorldSyncSystem struct {
	ctx      context.Context
	source   ObjectSource
	state    *world.State
	log      *zap.Logger
	interval time.Duration
	elapsed  time.Duration
	synced   bool
}

func NewWorldSyncSystem(ctx context.Context, src ObjectSource, ws *world.State, interval time.Duration, log *zap.Logger) *WorldSyncSystem {
	return &WorldSyncSystem{ctx: ctx, source: src, state: ws, interval: interval, log: log}
}

func (s *WorldSyncSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *WorldSyncSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.synced && s.elapsed < s.interval {
		return
	}
	s.elapsed = 0

	objs, err := s.source.LoadAll(s.ctx)
	if err != nil {
		// keep the previous state; the next interval retries
		s.log.Warn("world sync failed", zap.Error(err))
		return
	}
	s.synced = true
	spawned, despawned := s.state.Reconcile(objs)
	if spawned > 0 || despawned > 0 {
		s.log.Debug("world synced",
			zap.Int("spawned", spawned),
			zap.Int("despawned", despawned),
			zap.Int("objects", s.state.Len()),
		)
	}
}

// WithStatic returns a source that reports static alongside everything src
// lists. Static objects come last.
func WithStatic(src ObjectSource, static []world.Object) ObjectSource {
	if len(static) == 0 {
		return src
	}
	return staticSource{src: src, static: static}
}

type staticSource struct {
	src    ObjectSource
	static []world.Object
}

func (s staticSource) LoadAll(ctx context.Context) ([]world.Object, error) {
	objs, err := s.src.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return append(objs, s.static...), nil
}
