package scripting

import (
	"fmt"

	"github.com/l1jgo/navigator/internal/nav"
)

// Strategy is a grouping strategy whose key function is written in Lua:
//
//	function shop_row(e)
//	  if e.category ~= "npc" then return nil end
//	  return e.map_id .. ":" .. math.floor(e.y / 10)
//	end
//
// The script must be deterministic. Representatives are the member nearest
// to the observer.
type Strategy struct {
	engine *Engine
	name   string
	fn     string
}

func NewStrategy(engine *Engine, name, fn string) (*Strategy, error) {
	if !engine.HasFunction(fn) {
		return nil, fmt.Errorf("strategy %s: %s: %w", name, fn, ErrNoFunction)
	}
	return &Strategy{engine: engine, name: name, fn: fn}, nil
}

func (s *Strategy) Name() string { return s.name }

func (s *Strategy) GroupKey(e *nav.Entity) (string, error) {
	return s.engine.GroupKey(s.fn, e)
}

func (s *Strategy) Representative(members []*nav.Entity, ref nav.Position) *nav.Entity {
	return nav.Nearest(members, ref)
}
