package replay

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/l1jgo/navigator/internal/grouping"
	"github.com/l1jgo/navigator/internal/nav"
	"github.com/l1jgo/navigator/internal/world"
)

// Catalog maps strategy names to strategies a scenario may enable.
type Catalog map[string]nav.Strategy

// DefaultCatalog holds the built-in strategies with default settings.
func DefaultCatalog() Catalog {
	return NewCatalog(
		grouping.NewDestination(),
		grouping.NewRegion(grouping.DefaultCellSize, nil, nil),
		grouping.NewLabel(nav.CategoryItem),
	)
}

func NewCatalog(ss ...nav.Strategy) Catalog {
	c := make(Catalog, len(ss))
	for _, s := range ss {
		c[s.Name()] = s
	}
	return c
}

// Names returns the catalog's strategy names, sorted.
func (c Catalog) Names() []string {
	out := make([]string, 0, len(c))
	for name := range c {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c Catalog) lookup(name string) (nav.Strategy, error) {
	s, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (have %s)", name, strings.Join(c.Names(), ", "))
	}
	return s, nil
}

// Trace is the observable outcome of a scenario.
type Trace struct {
	Scenario string      `yaml:"scenario"`
	Steps    []StepTrace `yaml:"steps"`
}

// StepTrace lists the events one step produced, in delivery order, and the
// registry's wrappers after it, in discovery order.
type StepTrace struct {
	Action string   `yaml:"action"`
	Events []string `yaml:"events,omitempty"`
	State  []string `yaml:"state,omitempty"`
}

// Run plays sc against a fresh world and registry. The registry's invariants
// are verified after every step.
func Run(ctx context.Context, sc *Scenario, cat Catalog, log *zap.Logger) (*Trace, error) {
	ws := world.NewState()
	cls := world.NewClassifier(ws)

	opts := []nav.Option{nav.WithLogger(log)}
	if sc.MembershipEvents {
		opts = append(opts, nav.WithMembershipEvents())
	}
	for _, name := range sc.Strategies {
		s, err := cat.lookup(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, nav.WithStrategies(s))
	}
	reg := nav.New(ws, cls, opts...)

	var events []string
	sub := reg.Subscribe(func(ev nav.Event) { events = append(events, ev.String()) })
	defer sub.Cancel()

	observer := nav.Position{X: sc.Observer.X, Y: sc.Observer.Y, MapID: sc.Observer.MapID}
	tr := &Trace{Scenario: sc.Name}
	for i, st := range sc.Steps {
		events = nil
		if err := apply(ctx, st, ws, cls, reg, cat); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, st.action(), err)
		}
		if err := reg.CheckInvariants(); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, st.action(), err)
		}
		tr.Steps = append(tr.Steps, StepTrace{
			Action: st.action(),
			Events: events,
			State:  describe(reg.View(), observer),
		})
	}
	return tr, nil
}

func apply(ctx context.Context, st Step, ws *world.State, cls *world.Classifier, reg *nav.Registry, cat Catalog) error {
	switch {
	case st.Objects != nil:
		ws.Reconcile(*st.Objects)
		return reg.ForceScan(ctx)
	case st.Enable != "":
		s, err := cat.lookup(st.Enable)
		if err != nil {
			return err
		}
		return reg.EnableStrategy(s)
	case st.Disable != "":
		s, err := cat.lookup(st.Disable)
		if err != nil {
			return err
		}
		return reg.DisableStrategy(s)
	case st.Move != nil:
		if !ws.Move(st.Move.ID, st.Move.X, st.Move.Y, st.Move.MapID) {
			return fmt.Errorf("no object %d", st.Move.ID)
		}
		cls.RefreshPositions(reg.View())
		return nil
	case st.Scan:
		return reg.ForceScan(ctx)
	}
	return nil
}

func describe(v nav.View, observer nav.Position) []string {
	var out []string
	v.Each(func(ref nav.Ref) bool {
		if ref.IsGroup() {
			g := ref.Group
			names := make([]string, 0, g.Len())
			for _, m := range g.Members() {
				names = append(names, m.Name)
			}
			out = append(out, fmt.Sprintf("%s %s [%s] rep=%s",
				g.Category(), ref.Label(), strings.Join(names, ", "), g.Representative(observer).Name))
			return true
		}
		out = append(out, fmt.Sprintf("%s %s %s", ref.Category(), ref.Label(), ref.Entity.Pos))
		return true
	})
	return out
}
