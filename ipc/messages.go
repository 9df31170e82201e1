package ipc

import (
	"github.com/nstehr/gridwars/gridwars-core/model"
	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// Message types understood by the core. Clients send hello, command,
// select, snapshot and reset; the core answers and pushes events.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeError     = "error"
	TypeCommand   = "command"
	TypeResult    = "result"
	TypeSelect    = "select"
	TypeSelection = "selection"
	TypeSnapshot  = "snapshot"
	TypeReset     = "reset"
	TypeEvents    = "events"
)

// HelloMessage opens a match. Every field is optional; omitted fields fall
// back to the server configuration.
type HelloMessage struct {
	Player  string        `json:"player"`
	Sides   int           `json:"sides,omitempty"`
	AISides []int         `json:"aiSides,omitempty"`
	Seed    *int64        `json:"seed,omitempty"`
	Layout  *model.Layout `json:"layout,omitempty"`
}

// ResetMessage restarts the match on the same connection. Any AI turn still
// being replayed is discarded.
type ResetMessage struct {
	Seed   *int64        `json:"seed,omitempty"`
	Layout *model.Layout `json:"layout,omitempty"`
}

type AckMessage struct {
	Status  string            `json:"status"`
	MatchID string            `json:"matchId,omitempty"`
	Turn    model.TurnContext `json:"turn"`
	AISides []int             `json:"aiSides,omitempty"`
}

type ErrorMessage struct {
	Request string `json:"request,omitempty"`
	Message string `json:"message"`
}

// EventsMessage is pushed while a computer side plays, one per applied
// command.
type EventsMessage struct {
	Side    int                  `json:"side"`
	Command sim.Command          `json:"command"`
	Events  []sim.Event          `json:"events"`
	Outcome *model.CombatOutcome `json:"outcome,omitempty"`
	Turn    model.TurnContext    `json:"turn"`
}
