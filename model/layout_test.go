package model

import (
	"strings"
	"testing"
)

func TestLayoutTerrain(t *testing.T) {
	l := Layout{Rows: []string{
		".fm",
		"~=b",
	}}
	w, h, kinds, err := l.Terrain()
	if err != nil {
		t.Fatalf("Terrain: %v", err)
	}
	if w != 3 || h != 2 {
		t.Fatalf("size = %dx%d, want 3x2", w, h)
	}
	want := []TerrainKind{Plain, Forest, Mountain, Sea, Road, Bridge}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("kinds[%d] = %s, want %s", i, kinds[i], k)
		}
	}
}

func TestLayoutTerrainErrors(t *testing.T) {
	tests := map[string]Layout{
		"empty":   {},
		"ragged":  {Rows: []string{"...", ".."}},
		"unknown": {Rows: []string{".x."}},
	}
	for name, l := range tests {
		if _, _, _, err := l.Terrain(); err == nil {
			t.Errorf("%s: Terrain should fail", name)
		}
	}
}

const sampleLayout = `
rows:
  - "....."
  - ".fmf."
  - "....."
units:
  - {type: Tank, owner: 0, x: 0, y: 0}
  - {type: infantry, owner: 1, x: 4, y: 2}
`

func TestLoadLayoutBuild(t *testing.T) {
	l, err := LoadLayout(strings.NewReader(sampleLayout))
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	b, err := l.Build(DefaultCatalog())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b.Width != 5 || b.Height != 3 {
		t.Errorf("board = %dx%d, want 5x3", b.Width, b.Height)
	}
	if b.TileAt(2, 1).Kind() != Mountain {
		t.Errorf("(2,1) = %s, want mountain", b.TileAt(2, 1).Kind())
	}
	units := b.Units()
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2", len(units))
	}
	if units[1].Type.Name != "Infantry" || units[1].Owner != 1 {
		t.Errorf("second unit = %v", units[1])
	}
}

func TestLayoutBuildErrors(t *testing.T) {
	base := PlainLayout(3, 3)

	unknown := base
	unknown.Units = []Placement{{Type: "Zeppelin", X: 0, Y: 0}}
	if _, err := unknown.Build(DefaultCatalog()); err == nil {
		t.Error("unknown unit type should fail")
	}

	outside := base
	outside.Units = []Placement{{Type: "Tank", X: 5, Y: 0}}
	if _, err := outside.Build(DefaultCatalog()); err == nil {
		t.Error("out-of-bounds placement should fail")
	}

	stacked := base
	stacked.Units = []Placement{{Type: "Tank", X: 1, Y: 1}, {Type: "Infantry", X: 1, Y: 1}}
	if _, err := stacked.Build(DefaultCatalog()); err == nil {
		t.Error("stacked placement should fail")
	}
}
