package world

import "fmt"

// Kind is the world-side type of an object.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPlayer
	KindNpc
	KindGroundItem
	KindDoor
	KindPortal
	KindSign
	KindEffect // spell effects, traps: present in the world, never navigable
)

var kindNames = [...]string{
	KindUnknown:    "unknown",
	KindPlayer:     "player",
	KindNpc:        "npc",
	KindGroundItem: "ground_item",
	KindDoor:       "door",
	KindPortal:     "portal",
	KindSign:       "sign",
	KindEffect:     "effect",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown object kind %q", s)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Object is one thing in the world as its source reports it.
// ID is the source's own identifier and may be reused after the object is gone.
type Object struct {
	ID       int32  `yaml:"id"`
	Kind     Kind   `yaml:"kind"`
	Name     string `yaml:"name"`
	X        int32  `yaml:"x"`
	Y        int32  `yaml:"y"`
	MapID    int16  `yaml:"map_id"`
	DstX     int32  `yaml:"dst_x"`      // portals only
	DstY     int32  `yaml:"dst_y"`      // portals only
	DstMapID int16  `yaml:"dst_map_id"` // portals only
	Hidden   bool   `yaml:"hidden"`     // invisible or GM-only
}
