package nav_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/l1jgo/navigator/internal/core/handle"
	"github.com/l1jgo/navigator/internal/nav"
)

// fakeWorld is both the snapshot provider and the factory.
type fakeWorld struct {
	arena   *handle.Arena
	live    []handle.Handle
	objs    map[handle.Handle]nav.Entity
	byName  map[string]handle.Handle
	failFor map[handle.Handle]error
	panicOn map[handle.Handle]bool
	snapErr   error
	snapPanic bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		arena:   handle.NewArena(),
		objs:    make(map[handle.Handle]nav.Entity),
		byName:  make(map[string]handle.Handle),
		failFor: make(map[handle.Handle]error),
		panicOn: make(map[handle.Handle]bool),
	}
}

func (w *fakeWorld) spawn(name string, cat nav.Category, target string) handle.Handle {
	return w.spawnAt(name, cat, target, nav.Position{})
}

func (w *fakeWorld) spawnAt(name string, cat nav.Category, target string, pos nav.Position) handle.Handle {
	h := w.arena.Create()
	w.objs[h] = nav.Entity{Category: cat, Name: name, Target: target, Pos: pos}
	w.byName[name] = h
	w.live = append(w.live, h)
	return h
}

// hidden spawns an object the factory refuses to classify.
func (w *fakeWorld) hidden(name string) handle.Handle {
	h := w.arena.Create()
	w.byName[name] = h
	w.live = append(w.live, h)
	return h
}

func (w *fakeWorld) despawn(name string) {
	h := w.byName[name]
	for i, l := range w.live {
		if l == h {
			w.live = append(w.live[:i], w.live[i+1:]...)
			break
		}
	}
	delete(w.objs, h)
	delete(w.byName, name)
	w.arena.Release(h)
}

func (w *fakeWorld) Snapshot(context.Context) ([]handle.Handle, error) {
	if w.snapPanic {
		panic("world unloaded")
	}
	if w.snapErr != nil {
		return nil, w.snapErr
	}
	return append([]handle.Handle(nil), w.live...), nil
}

func (w *fakeWorld) Classify(_ context.Context, h handle.Handle) (*nav.Entity, error) {
	if w.panicOn[h] {
		panic("corrupt object")
	}
	if err := w.failFor[h]; err != nil {
		return nil, err
	}
	tmpl, ok := w.objs[h]
	if !ok {
		return nil, nil
	}
	e := tmpl
	return &e, nil
}

// targetStrategy keys entities by their Target.
type targetStrategy struct{ name string }

func (s targetStrategy) Name() string { return s.name }

func (s targetStrategy) GroupKey(e *nav.Entity) (string, error) { return e.Target, nil }

func (s targetStrategy) Representative(members []*nav.Entity, ref nav.Position) *nav.Entity {
	return nav.Nearest(members, ref)
}

// nameStrategy keys entities by the part of the name before '-'.
type nameStrategy struct{ name string }

func (s nameStrategy) Name() string { return s.name }

func (s nameStrategy) GroupKey(e *nav.Entity) (string, error) {
	prefix, _, ok := strings.Cut(e.Name, "-")
	if !ok {
		return "", nil
	}
	return prefix, nil
}

func (s nameStrategy) Representative(members []*nav.Entity, _ nav.Position) *nav.Entity {
	return nav.NearestToCentroid(members)
}

// flakyStrategy fails for one entity name.
type flakyStrategy struct {
	failName  string
	panicName string
}

func (s flakyStrategy) Name() string { return "flaky" }

func (s flakyStrategy) GroupKey(e *nav.Entity) (string, error) {
	switch e.Name {
	case s.failName:
		return "", errors.New("lookup failed")
	case s.panicName:
		panic("boom")
	}
	return e.Target, nil
}

func (s flakyStrategy) Representative(members []*nav.Entity, ref nav.Position) *nav.Entity {
	return nav.Nearest(members, ref)
}

type recorder struct {
	events []nav.Event
}

func (r *recorder) record(ev nav.Event) { r.events = append(r.events, ev) }

func (r *recorder) take() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.String()
	}
	r.events = nil
	return out
}

func memberNames(g *nav.Group) []string {
	var names []string
	for _, m := range g.Members() {
		names = append(names, m.Name)
	}
	return names
}

func describe(ref nav.Ref) string {
	if ref.Group != nil {
		return fmt.Sprintf("group:%s%v", ref.Label(), memberNames(ref.Group))
	}
	return ref.Label()
}
