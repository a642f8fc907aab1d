package nav

import (
	"context"
	"math"

	"github.com/l1jgo/navigator/internal/core/handle"
)

// Strategy folds entities into groups.
//
// GroupKey must be deterministic: the same entity must always produce the
// same key, since re-enabling a strategy relies on it to rebuild the same
// partition. An empty key means the entity is not groupable by this
// strategy. Name identifies the strategy; two strategies with the same name
// are treated as the same strategy.
//
// Representative is for consumers only; the registry never calls it.
type Strategy interface {
	Name() string
	GroupKey(e *Entity) (string, error)
	Representative(members []*Entity, ref Position) *Entity
}

// SnapshotProvider returns the complete set of live world handles. It must
// not mutate anything the registry can observe.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) ([]handle.Handle, error)
}

// Factory turns a newly observed handle into an Entity. A nil entity with a
// nil error means the object exists but is not a navigable target.
type Factory interface {
	Classify(ctx context.Context, h handle.Handle) (*Entity, error)
}

type SnapshotFunc func(ctx context.Context) ([]handle.Handle, error)

func (f SnapshotFunc) Snapshot(ctx context.Context) ([]handle.Handle, error) { return f(ctx) }

type FactoryFunc func(ctx context.Context, h handle.Handle) (*Entity, error)

func (f FactoryFunc) Classify(ctx context.Context, h handle.Handle) (*Entity, error) {
	return f(ctx, h)
}

// Nearest returns the member closest to ref. Members on ref's map always beat
// members elsewhere; ties go to the earlier member.
func Nearest(members []*Entity, ref Position) *Entity {
	var best *Entity
	bestSame := false
	var bestDist float64
	for _, m := range members {
		same := m.Pos.MapID == ref.MapID
		d := distSq(float64(m.Pos.X), float64(m.Pos.Y), float64(ref.X), float64(ref.Y))
		switch {
		case best == nil,
			same && !bestSame,
			same == bestSame && d < bestDist:
			best, bestSame, bestDist = m, same, d
		}
	}
	return best
}

// NearestToCentroid returns the member closest to the centroid of all
// members, ties going to the earlier member.
func NearestToCentroid(members []*Entity) *Entity {
	if len(members) == 0 {
		return nil
	}
	var sx, sy float64
	for _, m := range members {
		sx += float64(m.Pos.X)
		sy += float64(m.Pos.Y)
	}
	cx, cy := sx/float64(len(members)), sy/float64(len(members))

	best := members[0]
	bestDist := math.Inf(1)
	for _, m := range members {
		dx, dy := float64(m.Pos.X)-cx, float64(m.Pos.Y)-cy
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

func distSq(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return dx*dx + dy*dy
}
