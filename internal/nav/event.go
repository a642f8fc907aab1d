package nav

import "fmt"

type EventKind uint8

const (
	EventAdded EventKind = iota + 1
	EventRemoved
	// EventChanged reports a group whose membership grew or shrank without
	// appearing or disappearing. Only sent with WithMembershipEvents.
	EventChanged
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventRemoved:
		return "removed"
	case EventChanged:
		return "changed"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Event is one registry notification.
type Event struct {
	Kind EventKind
	Ref  Ref
}

func (e Event) String() string {
	sign := map[EventKind]string{EventAdded: "+", EventRemoved: "-", EventChanged: "~"}[e.Kind]
	if e.Ref.Group != nil {
		return fmt.Sprintf("%sgroup %s", sign, e.Ref.Label())
	}
	return fmt.Sprintf("%s%s", sign, e.Ref.Label())
}
