package system

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	coresys "github.com/l1jgo/navigator/internal/core/system"
	"github.com/l1jgo/navigator/internal/nav"
)

// ScanSystem drives the registry's scan timer. Phase 2 (Scan).
type ScanSystem struct {
	ctx      context.Context
	registry *nav.Registry
	log      *zap.Logger
}

func NewScanSystem(ctx context.Context, reg *nav.Registry, log *zap.Logger) *ScanSystem {
	return &ScanSystem{ctx: ctx, registry: reg, log: log}
}

func (s *ScanSystem) Phase() coresys.Phase { return coresys.PhaseScan }

func (s *ScanSystem) Update(dt time.Duration) {
	err := s.registry.Update(s.ctx, dt)
	switch {
	case err == nil:
	case errors.Is(err, nav.ErrReentrantScan):
		s.log.Debug("scan skipped", zap.Error(err))
	default:
		s.log.Warn("scan failed", zap.Error(err))
	}
}
