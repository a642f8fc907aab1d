package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PortalEntry defines a portal (dungeon entrance/exit) with source and destination.
type PortalEntry struct {
	SrcX     int32  `yaml:"src_x"`
	SrcY     int32  `yaml:"src_y"`
	SrcMapID int16  `yaml:"src_map_id"`
	DstX     int32  `yaml:"dst_x"`
	DstY     int32  `yaml:"dst_y"`
	DstMapID int16  `yaml:"dst_map_id"`
	Note     string `yaml:"note"`
}

type portalKey struct {
	x     int32
	y     int32
	mapID int16
}

// PortalTable holds one portal per source tile. Entries keep file order; a
// later duplicate source replaces the earlier one in place.
type PortalTable struct {
	entries []*PortalEntry
	bySrc   map[portalKey]int
}

// LoadPortalTable loads portal_list.yaml.
func LoadPortalTable(path string) (*PortalTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portal list: %w", err)
	}
	return ParsePortalTable(raw)
}

func ParsePortalTable(raw []byte) (*PortalTable, error) {
	var entries []PortalEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse portal list: %w", err)
	}
	t := &PortalTable{
		entries: make([]*PortalEntry, 0, len(entries)),
		bySrc:   make(map[portalKey]int, len(entries)),
	}
	for i := range entries {
		e := &entries[i]
		key := portalKey{x: e.SrcX, y: e.SrcY, mapID: e.SrcMapID}
		if idx, dup := t.bySrc[key]; dup {
			t.entries[idx] = e
			continue
		}
		t.bySrc[key] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// Entries returns all portals in file order.
func (t *PortalTable) Entries() []*PortalEntry {
	return t.entries
}

// Count returns the total number of portals loaded.
func (t *PortalTable) Count() int {
	return len(t.entries)
}
