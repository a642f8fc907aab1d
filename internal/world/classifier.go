package world

import (
	"context"
	"fmt"

	"github.com/l1jgo/navigator/internal/core/handle"
	"github.com/l1jgo/navigator/internal/nav"
)

var kindCategory = map[Kind]nav.Category{
	KindPlayer:     nav.CategoryPlayer,
	KindNpc:        nav.CategoryNpc,
	KindGroundItem: nav.CategoryItem,
	KindDoor:       nav.CategoryDoor,
	KindPortal:     nav.CategoryPortal,
	KindSign:       nav.CategorySign,
}

// Classifier turns world objects into navigable entities.
type Classifier struct {
	state *State
}

func NewClassifier(s *State) *Classifier {
	return &Classifier{state: s}
}

// Classify implements nav.Factory. Hidden objects, effects and objects that
// vanished since the snapshot are not navigable.
func (c *Classifier) Classify(_ context.Context, h handle.Handle) (*nav.Entity, error) {
	obj, ok := c.state.Get(h)
	if !ok || obj.Hidden {
		return nil, nil
	}
	cat, ok := kindCategory[obj.Kind]
	if !ok {
		return nil, nil
	}
	e := &nav.Entity{
		Handle:   h,
		Category: cat,
		Name:     obj.Name,
		Pos:      nav.Position{X: obj.X, Y: obj.Y, MapID: obj.MapID},
		Source:   obj.ID,
	}
	if obj.Kind == KindPortal {
		e.Target = ExitKey(obj.DstMapID)
	}
	return e, nil
}

// ExitKey names the destination of a portal into mapID.
func ExitKey(mapID int16) string {
	return fmt.Sprintf("exit_%d", mapID)
}

// RefreshPositions copies current object positions onto the registry's
// entities. Returns how many entities moved.
func (c *Classifier) RefreshPositions(v nav.View) int {
	moved := 0
	v.EachEntity(func(e *nav.Entity) {
		obj, ok := c.state.Get(e.Handle)
		if !ok {
			return
		}
		pos := nav.Position{X: obj.X, Y: obj.Y, MapID: obj.MapID}
		if pos != e.Pos {
			e.Pos = pos
			moved++
		}
	})
	return moved
}
