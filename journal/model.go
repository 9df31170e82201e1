package journal

import (
	"time"

	"gorm.io/datatypes"
)

// Match is one game session. The ID is assigned by the caller so the same
// id can be handed to clients before the row is written.
type Match struct {
	ID        string         `json:"id" gorm:"primaryKey;size:36"`
	Player    string         `json:"player" gorm:"size:127"`
	Sides     int            `json:"sides"`
	AISides   datatypes.JSON `json:"aiSides"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Seed      int64          `json:"seed"`
	StartedAt time.Time      `json:"startedAt" gorm:"index:idx_match_started"`
}

// EventRecord is one domain event and the command that caused it.
type EventRecord struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	MatchID   string         `json:"matchId" gorm:"size:36;index:idx_event_match_seq,priority:1"`
	Seq       int            `json:"seq" gorm:"index:idx_event_match_seq,priority:2"`
	Side      int            `json:"side"`
	Command   string         `json:"command" gorm:"size:16"`
	Args      datatypes.JSON `json:"args"`
	Kind      string         `json:"kind" gorm:"size:32"`
	Unit      int            `json:"unit"`
	Other     int            `json:"other"`
	FromX     *int           `json:"fromX"`
	FromY     *int           `json:"fromY"`
	ToX       *int           `json:"toX"`
	ToY       *int           `json:"toY"`
	Amount    int            `json:"amount"`
	Turn      int            `json:"turn"`
	Day       int            `json:"day"`
	Detail    string         `json:"detail" gorm:"size:255"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Models lists every table the journal migrates.
var Models = []any{
	&Match{},
	&EventRecord{},
}
