package model

// GameState is the read-only snapshot handed to presentation clients.
type GameState struct {
	Turn        TurnContext    `json:"turn"`
	Width       int            `json:"width"`
	Height      int            `json:"height"`
	Tiles       []TileState    `json:"tiles"`
	Units       []UnitState    `json:"units"`
	LastOutcome *CombatOutcome `json:"lastOutcome,omitempty"`
}

type TileState struct {
	X        int         `json:"x"`
	Y        int         `json:"y"`
	Terrain  TerrainKind `json:"terrain"`
	Defense  int         `json:"defense"`
	Occupant UnitID      `json:"occupant,omitempty"`
}

type UnitState struct {
	ID          UnitID `json:"id"`
	Type        string `json:"type"`
	Owner       int    `json:"owner"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	HP          int    `json:"hp"`
	MaxHP       int    `json:"maxHp"`
	Fuel        int    `json:"fuel"`
	Ammo        int    `json:"ammo"`
	HasMoved    bool   `json:"hasMoved"`
	HasAttacked bool   `json:"hasAttacked"`
}

func (u UnitState) TypeName() string { return u.Type }

// Snapshot copies the board into a GameState.
func (b *Board) Snapshot(turn TurnContext) GameState {
	gs := GameState{
		Turn:   turn,
		Width:  b.Width,
		Height: b.Height,
		Tiles:  make([]TileState, len(b.tiles)),
		Units:  make([]UnitState, 0, len(b.order)),
	}
	for i := range b.tiles {
		t := &b.tiles[i]
		gs.Tiles[i] = TileState{X: t.X, Y: t.Y, Terrain: t.kind, Defense: t.Defense, Occupant: t.occupant}
	}
	for _, u := range b.Units() {
		us := UnitState{
			ID:          u.ID,
			Type:        u.Type.Name,
			Owner:       u.Owner,
			HP:          u.HP,
			MaxHP:       u.Type.MaxHP,
			Fuel:        u.Fuel,
			Ammo:        u.Ammo,
			HasMoved:    u.HasMoved,
			HasAttacked: u.HasAttacked,
		}
		if t := b.Tile(u.tile); t != nil {
			us.X, us.Y = t.X, t.Y
		}
		gs.Units = append(gs.Units, us)
	}
	return gs
}
