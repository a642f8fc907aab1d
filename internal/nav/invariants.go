package nav

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/navigator/internal/core/handle"
)

// CheckInvariants verifies the handle map and the key index against each
// other. A non-nil result is a programming error in the registry.
func (r *Registry) CheckInvariants() error {
	var errs []error

	owners := make(map[handle.Handle]*Group, len(r.entries))
	for id, g := range r.groups {
		if g.Len() == 0 {
			errs = append(errs, fmt.Errorf("group %s/%s is empty", id.strategy, id.key))
		}
		if g.id() != id {
			errs = append(errs, fmt.Errorf("group %s indexed under %s/%s", g, id.strategy, id.key))
		}
		if r.strategyIndex(id.strategy) < 0 {
			errs = append(errs, fmt.Errorf("group %s owned by disabled strategy", g))
		}
		for _, m := range g.members {
			if other, dup := owners[m.Handle]; dup {
				errs = append(errs, fmt.Errorf("handle %s in both %s and %s", m.Handle, other, g))
			}
			owners[m.Handle] = g
			en, ok := r.entries[m.Handle]
			switch {
			case !ok:
				errs = append(errs, fmt.Errorf("group %s holds dead handle %s", g, m.Handle))
			case en.group != g:
				errs = append(errs, fmt.Errorf("handle %s in %s but mapped elsewhere", m.Handle, g))
			}
		}
	}

	for h, en := range r.entries {
		if en.entity == nil || en.entity.Handle != h {
			errs = append(errs, fmt.Errorf("handle %s maps to a foreign entity", h))
			continue
		}
		if en.group == nil {
			continue
		}
		if r.groups[en.group.id()] != en.group {
			errs = append(errs, fmt.Errorf("handle %s maps to unindexed %s", h, en.group))
		}
		if !en.group.contains(h) {
			errs = append(errs, fmt.Errorf("handle %s maps to %s without membership", h, en.group))
		}
	}

	return errors.Join(errs...)
}

func (r *Registry) check(op string) {
	if !r.debugChecks {
		return
	}
	if err := r.CheckInvariants(); err != nil {
		r.log.DPanic("registry invariant violated", zap.String("op", op), zap.Error(err))
	}
}
