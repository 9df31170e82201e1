package model

import (
	"fmt"
	"strings"
)

// Impassable is the movement cost sentinel for terrain a unit cannot enter.
// Any cost at or above it is treated as blocked.
const Impassable = 999

// TerrainKind classifies a single map tile.
type TerrainKind byte

const (
	Plain     TerrainKind = iota
	Forest                // cover, slows vehicles
	Mountain              // best cover, infantry only in practice
	River                 // fordable by foot units
	Sea                   // naval only
	Road                  // fast lane for vehicles
	Bridge                // road over water
	Reef                  // shallow sea with cover
	Pipe                  // pipe runner track
	Waterfall             // blocks everything
	Shore                 // beach between land and sea
)

var terrainNames = [...]string{
	Plain:     "plain",
	Forest:    "forest",
	Mountain:  "mountain",
	River:     "river",
	Sea:       "sea",
	Road:      "road",
	Bridge:    "bridge",
	Reef:      "reef",
	Pipe:      "pipe",
	Waterfall: "waterfall",
	Shore:     "shore",
}

func (k TerrainKind) String() string {
	if int(k) < len(terrainNames) {
		return terrainNames[k]
	}
	return fmt.Sprintf("terrain(%d)", byte(k))
}

// ParseTerrainKind maps a case-insensitive terrain name to its kind.
func ParseTerrainKind(s string) (TerrainKind, error) {
	for i, name := range terrainNames {
		if strings.EqualFold(name, s) {
			return TerrainKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", s)
}

// MarshalText lets terrain kinds appear by name in JSON and YAML documents.
func (k TerrainKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *TerrainKind) UnmarshalText(b []byte) error {
	parsed, err := ParseTerrainKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TerrainProfile holds the per-kind defaults copied onto every tile of that kind.
type TerrainProfile struct {
	MoveCost int // base cost, used when a unit type has no movement table
	Defense  int // percent damage reduction, 0–100
}

var terrainProfiles = map[TerrainKind]TerrainProfile{
	Plain:     {MoveCost: 1, Defense: 0},
	Forest:    {MoveCost: 1, Defense: 20},
	Mountain:  {MoveCost: 2, Defense: 30},
	River:     {MoveCost: 2, Defense: 0},
	Sea:       {MoveCost: 1, Defense: 0},
	Road:      {MoveCost: 1, Defense: 0},
	Bridge:    {MoveCost: 1, Defense: 0},
	Reef:      {MoveCost: 1, Defense: 10},
	Pipe:      {MoveCost: 1, Defense: 0},
	Waterfall: {MoveCost: Impassable, Defense: 0},
	Shore:     {MoveCost: 1, Defense: 0},
}

// Profile returns the default cost and defense for a terrain kind.
// Unknown kinds are impassable.
func (k TerrainKind) Profile() TerrainProfile {
	p, ok := terrainProfiles[k]
	if !ok {
		return TerrainProfile{MoveCost: Impassable}
	}
	return p
}
