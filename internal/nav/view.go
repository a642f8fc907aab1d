package nav

import "github.com/l1jgo/navigator/internal/core/handle"

// View is a read-only window onto the registry. It reflects the live state,
// so anything read from it may change across a scan.
type View struct {
	r *Registry
}

func (r *Registry) View() View { return View{r: r} }

// Lookup returns the current wrapper of h.
func (v View) Lookup(h handle.Handle) (Ref, bool) {
	en, ok := v.r.entries[h]
	if !ok {
		return Ref{}, false
	}
	return en.ref(), true
}

// Group returns the live group for key under the named strategy.
func (v View) Group(strategy, key string) (*Group, bool) {
	g, ok := v.r.groups[groupID{strategy: strategy, key: key}]
	return g, ok
}

// Len is the number of live wrappers: standalone entities plus groups.
func (v View) Len() int {
	n := len(v.r.groups)
	for _, en := range v.r.entries {
		if en.group == nil {
			n++
		}
	}
	return n
}

func (v View) HandleCount() int { return len(v.r.entries) }
func (v View) GroupCount() int  { return len(v.r.groups) }

// CountByCategory counts live wrappers of category c.
func (v View) CountByCategory(c Category) int {
	n := 0
	v.Each(func(ref Ref) bool {
		if ref.Category() == c {
			n++
		}
		return true
	})
	return n
}

// Each visits every live wrapper in discovery order; a group is visited at
// the position of its earliest surviving member. Returning false stops.
func (v View) Each(fn func(Ref) bool) {
	seen := make(map[*Group]struct{}, len(v.r.groups))
	for _, en := range v.r.sortedEntries() {
		if en.group != nil {
			if _, dup := seen[en.group]; dup {
				continue
			}
			seen[en.group] = struct{}{}
		}
		if !fn(en.ref()) {
			return
		}
	}
}

// EachEntity visits every live entity, grouped or not, in discovery order.
func (v View) EachEntity(fn func(*Entity)) {
	for _, en := range v.r.sortedEntries() {
		fn(en.entity)
	}
}
