package world

import (
	"context"

	"github.com/l1jgo/navigator/internal/core/handle"
	"github.com/l1jgo/navigator/internal/data"
)

// State holds the objects currently in the world. Every spawn gets a fresh
// arena handle, so an object ID that disappears and comes back is a new
// handle and never aliases the old registry entry.
// Accessed only from the tick goroutine.
type State struct {
	arena   *handle.Arena
	objects map[handle.Handle]*Object
	byID    map[int32]handle.Handle
	order   []handle.Handle // spawn order
}

func NewState() *State {
	return &State{
		arena:   handle.NewArena(),
		objects: make(map[handle.Handle]*Object, 256),
		byID:    make(map[int32]handle.Handle, 256),
	}
}

// Spawn adds obj, or overwrites the stored object if its ID is already present.
func (s *State) Spawn(obj Object) handle.Handle {
	if h, ok := s.byID[obj.ID]; ok {
		*s.objects[h] = obj
		return h
	}
	h := s.arena.Create()
	o := obj
	s.objects[h] = &o
	s.byID[obj.ID] = h
	s.order = append(s.order, h)
	return h
}

// Despawn removes the object with the given ID and invalidates its handle.
func (s *State) Despawn(id int32) bool {
	h, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.objects, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.arena.Release(h)
	return true
}

// Move updates an object's position.
func (s *State) Move(id int32, x, y int32, mapID int16) bool {
	h, ok := s.byID[id]
	if !ok {
		return false
	}
	o := s.objects[h]
	o.X, o.Y, o.MapID = x, y, mapID
	return true
}

// Get returns the object behind h. Stale handles are never found.
func (s *State) Get(h handle.Handle) (*Object, bool) {
	if !s.arena.Alive(h) {
		return nil, false
	}
	o, ok := s.objects[h]
	return o, ok
}

func (s *State) HandleOf(id int32) (handle.Handle, bool) {
	h, ok := s.byID[id]
	return h, ok
}

func (s *State) Len() int { return len(s.objects) }

// Snapshot returns all live handles in spawn order.
func (s *State) Snapshot(_ context.Context) ([]handle.Handle, error) {
	out := make([]handle.Handle, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Reconcile makes the state match objs exactly: unknown IDs are spawned,
// missing IDs despawned, and the rest updated in place.
func (s *State) Reconcile(objs []Object) (spawned, despawned int) {
	seen := make(map[int32]struct{}, len(objs))
	for _, o := range objs {
		seen[o.ID] = struct{}{}
	}

	var gone []int32
	for _, h := range s.order {
		if id := s.objects[h].ID; !inSet(seen, id) {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		s.Despawn(id)
		despawned++
	}

	for _, o := range objs {
		if _, ok := s.byID[o.ID]; !ok {
			spawned++
		}
		s.Spawn(o)
	}
	return spawned, despawned
}

// PortalObjects converts a portal table into world objects with IDs
// counting up from firstID.
func PortalObjects(t *data.PortalTable, firstID int32) []Object {
	out := make([]Object, 0, t.Count())
	for i, p := range t.Entries() {
		out = append(out, Object{
			ID:       firstID + int32(i),
			Kind:     KindPortal,
			Name:     p.Note,
			X:        p.SrcX,
			Y:        p.SrcY,
			MapID:    p.SrcMapID,
			DstX:     p.DstX,
			DstY:     p.DstY,
			DstMapID: p.DstMapID,
		})
	}
	return out
}

func inSet(set map[int32]struct{}, id int32) bool {
	_, ok := set[id]
	return ok
}
