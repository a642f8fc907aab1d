package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type regionEntry struct {
	MapID int16  `yaml:"map_id"`
	Name  string `yaml:"name"`
}

// LoadRegionNames loads region_list.yaml into a map ID → short name table
// used to label region group keys.
func LoadRegionNames(path string) (map[int16]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region list: %w", err)
	}
	var entries []regionEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse region list: %w", err)
	}
	names := make(map[int16]string, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("region list: map %d has no name", e.MapID)
		}
		names[e.MapID] = e.Name
	}
	return names, nil
}
