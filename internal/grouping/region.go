package grouping

import (
	"fmt"

	"github.com/l1jgo/navigator/internal/nav"
)

// DefaultCellSize matches the visibility range of the game client.
const DefaultCellSize = 20

// Region groups entities of the selected categories that stand in the same
// fixed cell of the same map. The representative is the member nearest to
// the centroid of the group, so it does not jump as the observer moves.
type Region struct {
	cellSize   int32
	categories map[nav.Category]struct{}
	names      map[int16]string
}

// NewRegion builds a region strategy. An empty category list groups every
// category. names optionally labels maps in keys ("giran:3:4" instead of
// "4:3:4").
func NewRegion(cellSize int32, categories []nav.Category, names map[int16]string) *Region {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	r := &Region{cellSize: cellSize, names: names}
	if len(categories) > 0 {
		r.categories = make(map[nav.Category]struct{}, len(categories))
		for _, c := range categories {
			r.categories[c] = struct{}{}
		}
	}
	return r
}

func (r *Region) Name() string { return "region" }

func (r *Region) GroupKey(e *nav.Entity) (string, error) {
	if r.categories != nil {
		if _, ok := r.categories[e.Category]; !ok {
			return "", nil
		}
	}
	cx, cy := r.Cell(e.Pos)
	mapLabel := fmt.Sprint(e.Pos.MapID)
	if n, ok := r.names[e.Pos.MapID]; ok {
		mapLabel = n
	}
	return fmt.Sprintf("%s:%d:%d:%s", mapLabel, cx, cy, e.Category), nil
}

func (r *Region) Representative(members []*nav.Entity, _ nav.Position) *nav.Entity {
	return nav.NearestToCentroid(members)
}

// Cell returns the cell coordinates containing p. Negative coordinates
// round toward negative infinity so cells never straddle the origin.
func (r *Region) Cell(p nav.Position) (int32, int32) {
	return toCellCoord(p.X, r.cellSize), toCellCoord(p.Y, r.cellSize)
}

func toCellCoord(v, size int32) int32 {
	if v < 0 {
		return (v - size + 1) / size
	}
	return v / size
}
