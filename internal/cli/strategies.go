package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/navigator/internal/config"
	"github.com/l1jgo/navigator/internal/data"
	"github.com/l1jgo/navigator/internal/grouping"
	"github.com/l1jgo/navigator/internal/nav"
	"github.com/l1jgo/navigator/internal/scripting"
)

// strategySet is the configured strategies in priority order, plus the Lua
// engine backing the scripted ones.
type strategySet struct {
	enabled []nav.Strategy
	all     []nav.Strategy // enabled plus the built-ins switched off in config
	engine  *scripting.Engine
}

func (s *strategySet) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
}

// buildStrategies constructs every strategy the config names. Built-ins come
// first (destination, region, label), then scripts in file order. Built-ins
// that are switched off are still constructed so scenarios can enable them.
// Names must be unique across built-ins and scripts.
func buildStrategies(cfg config.GroupingConfig, log *zap.Logger) (*strategySet, error) {
	set := &strategySet{}
	seen := make(map[string]struct{})
	add := func(s nav.Strategy, on bool) error {
		if _, dup := seen[s.Name()]; dup {
			return fmt.Errorf("strategy name %q used twice", s.Name())
		}
		seen[s.Name()] = struct{}{}
		set.all = append(set.all, s)
		if on {
			set.enabled = append(set.enabled, s)
		}
		return nil
	}

	// built-in names are distinct
	_ = add(grouping.NewDestination(), cfg.Destination)

	var names map[int16]string
	if cfg.RegionNames != "" {
		n, err := data.LoadRegionNames(cfg.RegionNames)
		if err != nil {
			return nil, err
		}
		names = n
	}
	_ = add(grouping.NewRegion(cfg.RegionCellSize, nil, names), cfg.Region)

	cats := make([]nav.Category, 0, len(cfg.LabelCategories))
	for _, name := range cfg.LabelCategories {
		c, err := nav.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("grouping.label_categories: %w", err)
		}
		cats = append(cats, c)
	}
	_ = add(grouping.NewLabel(cats...), cfg.Labels)

	if len(cfg.Scripts) > 0 {
		engine, err := scripting.NewEngine(cfg.ScriptsDir, log)
		if err != nil {
			return nil, err
		}
		set.engine = engine
		for _, sc := range cfg.Scripts {
			s, err := scripting.NewStrategy(engine, sc.Name, sc.Function)
			if err == nil {
				err = add(s, true)
			}
			if err != nil {
				set.Close()
				return nil, err
			}
		}
	}

	log.Debug("strategies built", zap.Int("enabled", len(set.enabled)), zap.Int("known", len(set.all)))
	return set, nil
}
