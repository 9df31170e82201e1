package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoSuchTile   = errors.New("no such tile")
	ErrNoSuchUnit   = errors.New("no such unit")
	ErrTileOccupied = errors.New("tile occupied")
)

// TileID is a tile's index in the board arena (row-major).
type TileID int

// NoTile marks a unit that is not on the board.
const NoTile TileID = -1

// Coord is a grid coordinate.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Tile is one grid cell. Terrain is fixed at construction; the occupant is
// changed only by Board.
type Tile struct {
	ID       TileID
	X, Y     int
	MoveCost int
	Defense  int
	kind     TerrainKind
	occupant UnitID
}

func (t *Tile) Kind() TerrainKind { return t.kind }
func (t *Tile) Occupant() UnitID  { return t.occupant }
func (t *Tile) Occupied() bool    { return t.occupant != NoUnit }
func (t *Tile) Coord() Coord      { return Coord{X: t.X, Y: t.Y} }

// Board is the arena of tiles and units for one match. Every change to the
// tile↔unit link goes through Spawn, Relocate or Remove so both sides stay
// consistent.
type Board struct {
	Width  int
	Height int
	tiles  []Tile
	units  map[UnitID]*Unit
	order  []UnitID
	nextID UnitID
}

// NewBoard builds a width×height board from row-major terrain kinds. A nil
// kinds slice produces an all-Plain board.
func NewBoard(width, height int, kinds []TerrainKind) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid board size %dx%d", width, height)
	}
	if kinds != nil && len(kinds) != width*height {
		return nil, fmt.Errorf("terrain has %d tiles, want %d", len(kinds), width*height)
	}
	b := &Board{
		Width:  width,
		Height: height,
		tiles:  make([]Tile, width*height),
		units:  make(map[UnitID]*Unit),
		nextID: 1,
	}
	for i := range b.tiles {
		k := Plain
		if kinds != nil {
			k = kinds[i]
		}
		p := k.Profile()
		b.tiles[i] = Tile{
			ID:       TileID(i),
			X:        i % width,
			Y:        i / width,
			MoveCost: p.MoveCost,
			Defense:  p.Defense,
			kind:     k,
		}
	}
	return b, nil
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// TileID returns the arena index for (x, y).
func (b *Board) TileID(x, y int) (TileID, bool) {
	if !b.InBounds(x, y) {
		return NoTile, false
	}
	return TileID(y*b.Width + x), true
}

// Tile returns the tile with the given id, or nil.
func (b *Board) Tile(id TileID) *Tile {
	if id < 0 || int(id) >= len(b.tiles) {
		return nil
	}
	return &b.tiles[id]
}

// TileAt returns the tile at (x, y), or nil when out of bounds.
func (b *Board) TileAt(x, y int) *Tile {
	id, ok := b.TileID(x, y)
	if !ok {
		return nil
	}
	return &b.tiles[id]
}

func (b *Board) NumTiles() int { return len(b.tiles) }

var neighborOffsets = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// Neighbors returns the in-bounds 4-connected neighbours of a tile.
func (b *Board) Neighbors(id TileID) []TileID {
	t := b.Tile(id)
	if t == nil {
		return nil
	}
	out := make([]TileID, 0, 4)
	for _, d := range neighborOffsets {
		if n, ok := b.TileID(t.X+d[0], t.Y+d[1]); ok {
			out = append(out, n)
		}
	}
	return out
}

// Distance is the Manhattan distance between two tiles.
func (b *Board) Distance(from, to TileID) int {
	a, c := b.Tile(from), b.Tile(to)
	if a == nil || c == nil {
		return math.MaxInt
	}
	return abs(a.X-c.X) + abs(a.Y-c.Y)
}

// Center is the geometric centre of the board in tile coordinates.
func (b *Board) Center() (float64, float64) {
	return float64(b.Width-1) / 2, float64(b.Height-1) / 2
}

// Unit returns a live unit by id, or nil.
func (b *Board) Unit(id UnitID) *Unit {
	return b.units[id]
}

// UnitAt returns the unit on a tile, or nil.
func (b *Board) UnitAt(id TileID) *Unit {
	t := b.Tile(id)
	if t == nil || !t.Occupied() {
		return nil
	}
	return b.units[t.occupant]
}

// Units returns every live unit in roster (spawn) order.
func (b *Board) Units() []*Unit {
	out := make([]*Unit, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.units[id])
	}
	return out
}

// UnitsOwnedBy returns the roster of one side.
func (b *Board) UnitsOwnedBy(owner int) []*Unit {
	var out []*Unit
	for _, id := range b.order {
		if u := b.units[id]; u.Owner == owner {
			out = append(out, u)
		}
	}
	return out
}

// ResetSide clears the action flags of every unit owned by owner.
func (b *Board) ResetSide(owner int) {
	for _, u := range b.UnitsOwnedBy(owner) {
		u.ResetTurn()
	}
}

// ResetAll clears the action flags of every unit on the board.
func (b *Board) ResetAll() {
	for _, u := range b.units {
		u.ResetTurn()
	}
}

// Spawn creates a unit of type t on tile at. Fails on a bad or occupied tile.
func (b *Board) Spawn(t *UnitType, owner int, at TileID) (*Unit, error) {
	tile := b.Tile(at)
	if tile == nil {
		return nil, fmt.Errorf("spawn %s at %d: %w", t.Name, at, ErrNoSuchTile)
	}
	if tile.Occupied() {
		return nil, fmt.Errorf("spawn %s at (%d,%d): %w", t.Name, tile.X, tile.Y, ErrTileOccupied)
	}
	u := NewUnit(b.nextID, t, owner)
	b.nextID++
	b.units[u.ID] = u
	b.order = append(b.order, u.ID)
	tile.occupant = u.ID
	u.tile = at
	return u, nil
}

// Relocate moves a unit to an empty tile, updating both tiles and the unit.
func (b *Board) Relocate(id UnitID, to TileID) error {
	u := b.units[id]
	if u == nil {
		return fmt.Errorf("relocate %d: %w", id, ErrNoSuchUnit)
	}
	dst := b.Tile(to)
	if dst == nil {
		return fmt.Errorf("relocate %d to %d: %w", id, to, ErrNoSuchTile)
	}
	if dst.Occupied() {
		return fmt.Errorf("relocate %d to (%d,%d): %w", id, dst.X, dst.Y, ErrTileOccupied)
	}
	if src := b.Tile(u.tile); src != nil && src.occupant == id {
		src.occupant = NoUnit
	}
	dst.occupant = id
	u.tile = to
	return nil
}

// Remove takes a unit off the board and out of the roster.
func (b *Board) Remove(id UnitID) error {
	u := b.units[id]
	if u == nil {
		return fmt.Errorf("remove %d: %w", id, ErrNoSuchUnit)
	}
	if t := b.Tile(u.tile); t != nil && t.occupant == id {
		t.occupant = NoUnit
	}
	u.tile = NoTile
	delete(b.units, id)
	for i, oid := range b.order {
		if oid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clone returns a deep copy that shares only the immutable unit types.
func (b *Board) Clone() *Board {
	c := &Board{
		Width:  b.Width,
		Height: b.Height,
		tiles:  append([]Tile(nil), b.tiles...),
		units:  make(map[UnitID]*Unit, len(b.units)),
		order:  append([]UnitID(nil), b.order...),
		nextID: b.nextID,
	}
	for id, u := range b.units {
		cp := *u
		c.units[id] = &cp
	}
	return c
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
