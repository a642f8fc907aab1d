// Package replay runs scripted world timelines through a registry and
// records what observers would have been told.
package replay

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/navigator/internal/world"
)

// Scenario is a timeline of world snapshots and strategy changes.
type Scenario struct {
	Name             string   `yaml:"name"`
	MembershipEvents bool     `yaml:"membership_events"`
	Strategies       []string `yaml:"strategies"` // enabled before the first step
	Observer         Point    `yaml:"observer"`   // where representatives are measured from
	Steps            []Step   `yaml:"steps"`
}

// Step holds exactly one action.
type Step struct {
	Objects *[]world.Object `yaml:"objects"` // replace the world with this list, then scan
	Enable  string          `yaml:"enable"`
	Disable string          `yaml:"disable"`
	Move    *Move           `yaml:"move"`
	Scan    bool            `yaml:"scan"`
}

type Point struct {
	X     int32 `yaml:"x"`
	Y     int32 `yaml:"y"`
	MapID int16 `yaml:"map_id"`
}

// Move relocates one object without scanning.
type Move struct {
	ID    int32 `yaml:"id"`
	Point `yaml:",inline"`
}

func (s Step) action() string {
	switch {
	case s.Objects != nil:
		return fmt.Sprintf("objects (%d)", len(*s.Objects))
	case s.Enable != "":
		return "enable " + s.Enable
	case s.Disable != "":
		return "disable " + s.Disable
	case s.Move != nil:
		return fmt.Sprintf("move %d to (%d,%d)@%d", s.Move.ID, s.Move.X, s.Move.Y, s.Move.MapID)
	case s.Scan:
		return "scan"
	default:
		return ""
	}
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Objects != nil, s.Enable != "", s.Disable != "", s.Move != nil, s.Scan} {
		if set {
			n++
		}
	}
	return n
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	for i, st := range sc.Steps {
		if n := st.actions(); n != 1 {
			return nil, fmt.Errorf("step %d: want exactly one action, got %d", i+1, n)
		}
	}
	return &sc, nil
}
