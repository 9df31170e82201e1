package model

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog maps unit type names to their stat blocks.
type Catalog map[string]*UnitType

// Lookup finds a type by case-insensitive name.
func (c Catalog) Lookup(name string) (*UnitType, bool) {
	if t, ok := c[name]; ok {
		return t, true
	}
	for n, t := range c {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return nil, false
}

// Names returns the type names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new catalog with other's types replacing same-named ones.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for n, t := range c {
		out[n] = t
	}
	for n, t := range other {
		out[n] = t
	}
	return out
}

func footMoves() map[TerrainKind]int {
	return map[TerrainKind]int{Plain: 1, Road: 1, Bridge: 1, Shore: 1, Forest: 1, Mountain: 2, River: 2}
}

func mechMoves() map[TerrainKind]int {
	return map[TerrainKind]int{Plain: 1, Road: 1, Bridge: 1, Shore: 1, Forest: 1, Mountain: 1, River: 1}
}

func treadMoves() map[TerrainKind]int {
	return map[TerrainKind]int{Plain: 1, Road: 1, Bridge: 1, Shore: 1, Forest: 2}
}

func tireMoves() map[TerrainKind]int {
	return map[TerrainKind]int{Plain: 2, Road: 1, Bridge: 1, Shore: 1, Forest: 3}
}

// direct builds a melee attack table (range 1, ammo consuming).
func direct(damage map[string]int) map[string]AttackEntry {
	return ranged(1, 1, damage)
}

func ranged(lo, hi int, damage map[string]int) map[string]AttackEntry {
	out := make(map[string]AttackEntry, len(damage))
	for target, d := range damage {
		out[target] = AttackEntry{Damage: d, MinRange: lo, MaxRange: hi, UsesAmmo: true}
	}
	return out
}

// DefaultCatalog returns the built-in ground roster. Every call returns fresh
// values so callers may modify the result.
func DefaultCatalog() Catalog {
	types := []*UnitType{
		{
			Name: "Infantry", Class: ClassInfantry, MaxHP: 10, Fuel: 99, Ammo: 99, Movement: 3, Cost: 1000,
			Attacks: direct(map[string]int{
				"Infantry": 55, "Mech": 45, "Recon": 12, "Tank": 10, "MediumTank": 5,
				"MegaTank": 1, "APC": 1, "Artillery": 15, "AntiAir": 5,
			}),
			Moves: footMoves(),
		},
		{
			Name: "Mech", Class: ClassInfantry, MaxHP: 10, Fuel: 70, Ammo: 3, Movement: 2, Cost: 3000,
			Attacks: direct(map[string]int{
				"Infantry": 65, "Mech": 55, "Recon": 85, "Tank": 55, "MediumTank": 15,
				"MegaTank": 5, "APC": 75, "Artillery": 70, "AntiAir": 65,
			}),
			Moves: mechMoves(),
		},
		{
			Name: "Recon", Class: ClassVehicle, MaxHP: 10, Fuel: 80, Ammo: 99, Movement: 8, Cost: 4000,
			Attacks: direct(map[string]int{
				"Infantry": 70, "Mech": 35, "Recon": 85, "Tank": 28, "MediumTank": 40,
				"MegaTank": 10, "APC": 6, "Artillery": 45, "AntiAir": 4,
			}),
			Moves: tireMoves(),
		},
		{
			Name: "Tank", Class: ClassVehicle, MaxHP: 10, Fuel: 70, Ammo: 9, Movement: 2, Cost: 3000,
			Attacks: direct(map[string]int{
				"Infantry": 75, "Mech": 55, "Recon": 85, "Tank": 70, "MediumTank": 40,
				"MegaTank": 5, "APC": 1, "Artillery": 70, "AntiAir": 65,
			}),
			Moves: treadMoves(),
		},
		{
			Name: "MediumTank", Class: ClassVehicle, MaxHP: 10, Fuel: 50, Ammo: 8, Movement: 1, Cost: 16000,
			Attacks: direct(map[string]int{
				"Infantry": 95, "Mech": 75, "Recon": 105, "Tank": 95, "MediumTank": 75,
				"MegaTank": 25, "APC": 10, "Artillery": 105, "AntiAir": 105,
			}),
			Moves: treadMoves(),
		},
		{
			Name: "MegaTank", Class: ClassVehicle, MaxHP: 10, Fuel: 50, Ammo: 3, Movement: 1, Cost: 28000,
			Attacks: direct(map[string]int{
				"Infantry": 125, "Mech": 105, "Recon": 125, "Tank": 125, "MediumTank": 105,
				"MegaTank": 55, "APC": 35, "Artillery": 125, "AntiAir": 125,
			}),
			Moves: treadMoves(),
		},
		{
			Name: "APC", Class: ClassVehicle, MaxHP: 10, Fuel: 70, Ammo: 0, Movement: 2, Cost: 5000,
			Moves: treadMoves(),
		},
		{
			Name: "Artillery", Class: ClassVehicle, MaxHP: 10, Fuel: 50, Ammo: 9, Movement: 1, Cost: 6000,
			Attacks: ranged(2, 3, map[string]int{
				"Infantry": 90, "Mech": 70, "Recon": 80, "Tank": 75, "MediumTank": 45,
				"MegaTank": 65, "APC": 50, "Artillery": 75, "AntiAir": 75,
			}),
			Moves: treadMoves(),
		},
		{
			Name: "AntiAir", Class: ClassVehicle, MaxHP: 10, Fuel: 60, Ammo: 9, Movement: 2, Cost: 8000,
			Attacks: direct(map[string]int{
				"Infantry": 45, "Mech": 25, "Recon": 65, "Tank": 55, "MediumTank": 105,
				"MegaTank": 120, "APC": 15, "Artillery": 50, "AntiAir": 45,
			}),
			Moves: treadMoves(),
		},
	}

	c := make(Catalog, len(types))
	for _, t := range types {
		c[t.Name] = t
	}
	return c
}

type catalogFile struct {
	Units []catalogEntry `yaml:"units"`
}

type catalogEntry struct {
	Name     string                 `yaml:"name"`
	Class    UnitClass              `yaml:"class"`
	MaxHP    int                    `yaml:"max_hp"`
	Fuel     int                    `yaml:"fuel"`
	Ammo     int                    `yaml:"ammo"`
	Movement int                    `yaml:"movement"`
	Cost     int                    `yaml:"cost"`
	Attacks  map[string]attackEntry `yaml:"attacks"`
	Moves    map[TerrainKind]int    `yaml:"moves"`
}

// attackEntry mirrors AttackEntry with optional fields so a file can omit
// the common melee defaults.
type attackEntry struct {
	Damage   int   `yaml:"damage"`
	MinRange *int  `yaml:"min_range"`
	MaxRange *int  `yaml:"max_range"`
	UsesAmmo *bool `yaml:"uses_ammo"`
}

// LoadCatalog decodes a YAML unit catalog. Attack entries default to range
// 1–1 and consume ammo; max HP defaults to 10.
func LoadCatalog(r io.Reader) (Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := make(Catalog, len(f.Units))
	for _, e := range f.Units {
		t := &UnitType{
			Name:     e.Name,
			Class:    e.Class,
			MaxHP:    e.MaxHP,
			Fuel:     e.Fuel,
			Ammo:     e.Ammo,
			Movement: e.Movement,
			Cost:     e.Cost,
			Attacks:  make(map[string]AttackEntry, len(e.Attacks)),
			Moves:    e.Moves,
		}
		if t.MaxHP == 0 {
			t.MaxHP = 10
		}
		for target, a := range e.Attacks {
			entry := AttackEntry{Damage: a.Damage, MinRange: 1, MaxRange: 1, UsesAmmo: true}
			if a.MinRange != nil {
				entry.MinRange = *a.MinRange
			}
			if a.MaxRange != nil {
				entry.MaxRange = *a.MaxRange
			}
			if a.UsesAmmo != nil {
				entry.UsesAmmo = *a.UsesAmmo
			}
			t.Attacks[target] = entry
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c[t.Name]; dup {
			return nil, fmt.Errorf("duplicate unit type %q", t.Name)
		}
		c[t.Name] = t
	}
	return c, nil
}

// LoadCatalogFile reads a YAML catalog from disk.
func LoadCatalogFile(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}
