// Package nav maintains the set of navigable targets derived from the live
// world: individual entities, and group entities that fold related entities
// together under runtime-toggleable grouping strategies.
package nav

import (
	"fmt"

	"github.com/l1jgo/navigator/internal/core/handle"
)

// Category is the fixed classification of a navigable target.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryPlayer
	CategoryNpc
	CategoryItem
	CategoryDoor
	CategoryPortal
	CategorySign
)

var categoryNames = [...]string{
	CategoryUnknown: "unknown",
	CategoryPlayer:  "player",
	CategoryNpc:     "npc",
	CategoryItem:    "item",
	CategoryDoor:    "door",
	CategoryPortal:  "portal",
	CategorySign:    "sign",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", c)
}

// ParseCategory maps a category name back to its value.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// Position is a tile coordinate on one map.
type Position struct {
	X     int32
	Y     int32
	MapID int16
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)@%d", p.X, p.Y, p.MapID)
}

// Entity wraps exactly one world object handle.
// Category is fixed at creation. Pos, Name and Source belong to the
// classification layer; the registry never writes them.
type Entity struct {
	Handle   handle.Handle
	Category Category
	Name     string
	Pos      Position
	Target   string // where the object leads, empty if nowhere
	Source   any
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s %q [%s]", e.Category, e.Name, e.Handle)
}

// Group is an aggregate target owning an ordered, non-empty set of members
// that share one grouping key under one strategy.
type Group struct {
	key      string
	category Category
	owner    Strategy
	members  []*Entity
	seq      uint64
}

func (g *Group) Key() string        { return g.key }
func (g *Group) Category() Category { return g.category }
func (g *Group) Owner() Strategy    { return g.owner }
func (g *Group) Len() int           { return len(g.members) }

// Members returns a copy of the members in join order.
func (g *Group) Members() []*Entity {
	out := make([]*Entity, len(g.members))
	copy(out, g.members)
	return out
}

// Representative asks the owning strategy which member should stand in for
// the group as seen from ref. Returns nil for an empty group.
func (g *Group) Representative(ref Position) *Entity {
	if len(g.members) == 0 {
		return nil
	}
	return g.owner.Representative(g.Members(), ref)
}

func (g *Group) String() string {
	return fmt.Sprintf("group %s/%s (%d)", g.owner.Name(), g.key, len(g.members))
}

func (g *Group) id() groupID {
	return groupID{strategy: g.owner.Name(), key: g.key}
}

func (g *Group) add(e *Entity) {
	g.members = append(g.members, e)
}

func (g *Group) remove(h handle.Handle) bool {
	for i, m := range g.members {
		if m.Handle == h {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return true
		}
	}
	return false
}

func (g *Group) contains(h handle.Handle) bool {
	for _, m := range g.members {
		if m.Handle == h {
			return true
		}
	}
	return false
}

// groupID namespaces keys per strategy so two strategies producing the same
// key string never share a group.
type groupID struct {
	strategy string
	key      string
}

// Ref is the current wrapper of a handle: exactly one of Entity or Group is set.
type Ref struct {
	Entity *Entity
	Group  *Group
}

func (r Ref) IsGroup() bool { return r.Group != nil }
func (r Ref) IsZero() bool  { return r.Entity == nil && r.Group == nil }

func (r Ref) Category() Category {
	if r.Group != nil {
		return r.Group.category
	}
	if r.Entity != nil {
		return r.Entity.Category
	}
	return CategoryUnknown
}

// Label is the entity name, or strategy/key for a group.
func (r Ref) Label() string {
	switch {
	case r.Group != nil:
		return r.Group.owner.Name() + "/" + r.Group.key
	case r.Entity != nil:
		return r.Entity.Name
	default:
		return ""
	}
}
