package sim

import "github.com/nstehr/gridwars/gridwars-core/model"

// CommandKind names an action a side can request.
type CommandKind string

const (
	CmdMove    CommandKind = "move"
	CmdAttack  CommandKind = "attack"
	CmdWait    CommandKind = "wait"
	CmdEndTurn CommandKind = "end_turn"
	CmdSpawn   CommandKind = "spawn"
	CmdSelect  CommandKind = "select"
)

// Command is a request to change the simulation. Human input and the planner
// both produce Commands and both go through Simulation.Apply.
type Command struct {
	Kind     CommandKind  `json:"kind"`
	Unit     model.UnitID `json:"unit,omitempty"`
	Target   model.UnitID `json:"target,omitempty"`
	X        int          `json:"x,omitempty"`
	Y        int          `json:"y,omitempty"`
	UnitType string       `json:"unitType,omitempty"`
	Owner    int          `json:"owner,omitempty"`
}

func Move(id model.UnitID, x, y int) Command {
	return Command{Kind: CmdMove, Unit: id, X: x, Y: y}
}

func Attack(attacker, defender model.UnitID) Command {
	return Command{Kind: CmdAttack, Unit: attacker, Target: defender}
}

func Wait(id model.UnitID) Command {
	return Command{Kind: CmdWait, Unit: id}
}

func EndTurn() Command {
	return Command{Kind: CmdEndTurn}
}

func Spawn(unitType string, owner, x, y int) Command {
	return Command{Kind: CmdSpawn, UnitType: unitType, Owner: owner, X: x, Y: y}
}

// Result is what a successfully applied command produced.
type Result struct {
	Events  []Event              `json:"events"`
	Outcome *model.CombatOutcome `json:"outcome,omitempty"`
	Spawned model.UnitID         `json:"spawned,omitempty"`
	Turn    model.TurnContext    `json:"turn"`
}

// Selection lists what a unit could legally do right now.
type Selection struct {
	Unit    model.UnitID   `json:"unit"`
	Active  bool           `json:"active"`
	Moves   []model.Coord  `json:"moves"`
	Targets []model.UnitID `json:"targets"`
}
