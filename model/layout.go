package model

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// terrainGlyphs maps the single-character codes used in layout rows.
var terrainGlyphs = map[rune]TerrainKind{
	'.': Plain,
	'f': Forest,
	'm': Mountain,
	'r': River,
	'~': Sea,
	'=': Road,
	'b': Bridge,
	'o': Reef,
	'p': Pipe,
	'w': Waterfall,
	's': Shore,
}

// Placement is a starting unit in a layout.
type Placement struct {
	Type  string `yaml:"type" json:"type"`
	Owner int    `yaml:"owner" json:"owner"`
	X     int    `yaml:"x" json:"x"`
	Y     int    `yaml:"y" json:"y"`
}

// Layout is a board's terrain plus its starting units. Rows are strings of
// terrain glyphs, top row first.
type Layout struct {
	Rows  []string    `yaml:"rows" json:"rows"`
	Units []Placement `yaml:"units" json:"units"`
}

// Terrain parses the glyph rows into a width, height and row-major kinds.
func (l Layout) Terrain() (int, int, []TerrainKind, error) {
	if len(l.Rows) == 0 {
		return 0, 0, nil, fmt.Errorf("layout has no rows")
	}
	width := len([]rune(strings.TrimSpace(l.Rows[0])))
	kinds := make([]TerrainKind, 0, width*len(l.Rows))
	for y, row := range l.Rows {
		glyphs := []rune(strings.TrimSpace(row))
		if len(glyphs) != width {
			return 0, 0, nil, fmt.Errorf("row %d has %d tiles, want %d", y, len(glyphs), width)
		}
		for x, g := range glyphs {
			k, ok := terrainGlyphs[g]
			if !ok {
				return 0, 0, nil, fmt.Errorf("unknown terrain glyph %q at (%d,%d)", g, x, y)
			}
			kinds = append(kinds, k)
		}
	}
	return width, len(l.Rows), kinds, nil
}

// Build creates a board from the layout and spawns its units in order.
func (l Layout) Build(c Catalog) (*Board, error) {
	w, h, kinds, err := l.Terrain()
	if err != nil {
		return nil, err
	}
	b, err := NewBoard(w, h, kinds)
	if err != nil {
		return nil, err
	}
	for _, p := range l.Units {
		t, ok := c.Lookup(p.Type)
		if !ok {
			return nil, fmt.Errorf("layout unit at (%d,%d): unknown type %q", p.X, p.Y, p.Type)
		}
		id, ok := b.TileID(p.X, p.Y)
		if !ok {
			return nil, fmt.Errorf("layout unit %s: (%d,%d): %w", p.Type, p.X, p.Y, ErrNoSuchTile)
		}
		if _, err := b.Spawn(t, p.Owner, id); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadLayout decodes a YAML layout document.
func LoadLayout(r io.Reader) (Layout, error) {
	var l Layout
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// LoadLayoutFile reads a YAML layout from disk.
func LoadLayoutFile(path string) (Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(b, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}
	return l, nil
}

// PlainLayout is an empty all-Plain layout of the given size.
func PlainLayout(width, height int) Layout {
	rows := make([]string, height)
	for i := range rows {
		rows[i] = strings.Repeat(".", width)
	}
	return Layout{Rows: rows}
}
