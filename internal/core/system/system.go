package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput    Phase = iota // 0: pull world objects from their source
	PhaseClassify              // 1: refresh entity positions
	PhaseScan                  // 2: registry scan/diff
	PhaseOutput                // 3: deliver announcements
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseClassify:
		return "classify"
	case PhaseScan:
		return "scan"
	case PhaseOutput:
		return "output"
	default:
		return "unknown"
	}
}

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
