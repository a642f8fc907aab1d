package nav

import (
	"sort"

	"go.uber.org/zap"
)

// EnableStrategy appends s at the lowest priority and folds every current
// standalone entity that s can key into new groups. For each resulting group
// the members are announced Removed, then the group is announced Added.
// Partitions are built in discovery order, so the first-discovered member
// decides the group category. Enabling an enabled strategy is a no-op.
func (r *Registry) EnableStrategy(s Strategy) error {
	if s == nil {
		return ErrNilStrategy
	}
	if r.busy {
		r.deferred = append(r.deferred, func() { r.enable(s) })
		return nil
	}
	r.exclusive("enable", func() { r.enable(s) })
	return nil
}

// DisableStrategy removes s and dissolves every group it owns: the group is
// announced Removed, then each member is announced Added as a standalone
// entity, in member order. Disabling a disabled strategy is a no-op.
func (r *Registry) DisableStrategy(s Strategy) error {
	if s == nil {
		return ErrNilStrategy
	}
	if r.busy {
		r.deferred = append(r.deferred, func() { r.disable(s) })
		return nil
	}
	r.exclusive("disable", func() { r.disable(s) })
	return nil
}

// Strategies returns the enabled strategies in priority order.
func (r *Registry) Strategies() []Strategy {
	out := make([]Strategy, len(r.strategies))
	copy(out, r.strategies)
	return out
}

func (r *Registry) Enabled(name string) bool {
	return r.strategyIndex(name) >= 0
}

func (r *Registry) strategyIndex(name string) int {
	for i, s := range r.strategies {
		if s.Name() == name {
			return i
		}
	}
	return -1
}

type partition struct {
	key     string
	members []*entry
}

func (r *Registry) enable(s Strategy) {
	if r.strategyIndex(s.Name()) >= 0 {
		return
	}
	r.strategies = append(r.strategies, s)

	var parts []*partition
	byKey := make(map[string]*partition)
	for _, en := range r.sortedEntries() {
		if en.group != nil {
			continue
		}
		key := r.groupKey(s, en.entity)
		if key == "" {
			continue
		}
		p := byKey[key]
		if p == nil {
			p = &partition{key: key}
			byKey[key] = p
			parts = append(parts, p)
		}
		p.members = append(p.members, en)
	}

	for _, p := range parts {
		id := groupID{strategy: s.Name(), key: p.key}
		g, existed := r.groups[id]
		if !existed {
			g = r.newGroup(s, p.key, p.members[0].entity.Category)
			r.groups[id] = g
		}
		for _, en := range p.members {
			g.add(en.entity)
			en.group = g
		}

		for _, en := range p.members {
			r.publish(EventRemoved, Ref{Entity: en.entity})
		}
		switch {
		case !existed:
			r.publish(EventAdded, Ref{Group: g})
		case r.membershipEvents:
			r.publish(EventChanged, Ref{Group: g})
		}
	}

	r.log.Debug("strategy enabled",
		zap.String("strategy", s.Name()),
		zap.Int("priority", len(r.strategies)-1),
		zap.Int("groups_formed", len(parts)),
	)
}

func (r *Registry) disable(s Strategy) {
	i := r.strategyIndex(s.Name())
	if i < 0 {
		return
	}
	owner := r.strategies[i].Name()
	r.strategies = append(r.strategies[:i:i], r.strategies[i+1:]...)

	var owned []*Group
	for id, g := range r.groups {
		if id.strategy == owner {
			owned = append(owned, g)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].seq < owned[j].seq })

	for _, g := range owned {
		delete(r.groups, g.id())
		freed := make([]*Entity, 0, len(g.members))
		for _, m := range g.members {
			en, ok := r.entries[m.Handle]
			if !ok || en.group != g {
				continue
			}
			en.group = nil
			freed = append(freed, m)
		}

		// the dissolved group keeps its member list for subscribers to read
		r.publish(EventRemoved, Ref{Group: g})
		for _, m := range freed {
			r.publish(EventAdded, Ref{Entity: m})
		}
	}

	r.log.Debug("strategy disabled",
		zap.String("strategy", owner),
		zap.Int("groups_dissolved", len(owned)),
	)
}
