package system

import (
	"time"

	coresys "github.com/l1jgo/navigator/internal/core/system"
	"github.com/l1jgo/navigator/internal/nav"
	"github.com/l1jgo/navigator/internal/world"
)

// PositionSystem copies object positions onto registry entities so that
// representatives follow moving members. Phase 1 (Classify).
type PositionSystem struct {
	classifier *world.Classifier
	registry   *nav.Registry
}

func NewPositionSystem(c *world.Classifier, reg *nav.Registry) *PositionSystem {
	return &PositionSystem{classifier: c, registry: reg}
}

func (s *PositionSystem) Phase() coresys.Phase { return coresys.PhaseClassify }

func (s *PositionSystem) Update(_ time.Duration) {
	s.classifier.RefreshPositions(s.registry.View())
}
