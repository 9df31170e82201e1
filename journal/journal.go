// Package journal keeps an append-only record of matches and their events
// for analysis and replay viewing. It is not a save format; matches are
// never restored from it.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nstehr/gridwars/gridwars-core/sim"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// MatchInfo describes a match when it starts.
type MatchInfo struct {
	ID      string
	Player  string
	Sides   int
	AISides []int
	Width   int
	Height  int
	Seed    int64
}

// Recorder writes matches and events through gorm.
type Recorder struct {
	db  *gorm.DB
	mu  sync.Mutex
	seq map[string]int
}

// Open connects with the named driver. For sqlite the DSN is a file path
// (":memory:" or "file::memory:" for a throwaway database); for postgres it
// is a libpq connection string.
func Open(driver, dsn string) (*Recorder, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
		if err == nil {
			// A single writer keeps in-memory databases on one connection.
			sqlDB, dbErr := db.DB()
			if dbErr != nil {
				return nil, fmt.Errorf("access sql interface: %w", dbErr)
			}
			sqlDB.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	default:
		return nil, fmt.Errorf("unknown journal driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s journal: %w", driver, err)
	}
	return New(db)
}

// New wraps an open database and migrates the journal tables.
func New(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	slog.Info("journal ready", "dialect", db.Dialector.Name())
	return &Recorder{db: db, seq: make(map[string]int)}, nil
}

// BeginMatch stores the match row.
func (r *Recorder) BeginMatch(ctx context.Context, info MatchInfo) error {
	if info.ID == "" {
		return fmt.Errorf("match id is required")
	}
	m := Match{
		ID:        info.ID,
		Player:    info.Player,
		Sides:     info.Sides,
		AISides:   toJSON(info.AISides),
		Width:     info.Width,
		Height:    info.Height,
		Seed:      info.Seed,
		StartedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("create match %s: %w", info.ID, err)
	}
	r.mu.Lock()
	r.seq[info.ID] = 0
	r.mu.Unlock()
	return nil
}

// Record appends the events one applied command produced. Events keep their
// order through a per-match sequence number.
func (r *Recorder) Record(ctx context.Context, matchID string, side int, cmd sim.Command, events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	args := toJSON(cmd)
	next := r.seq[matchID]
	rows := make([]EventRecord, len(events))
	for i, e := range events {
		next++
		rows[i] = EventRecord{
			MatchID: matchID,
			Seq:     next,
			Side:    side,
			Command: string(cmd.Kind),
			Args:    args,
			Kind:    string(e.Kind),
			Unit:    int(e.Unit),
			Other:   int(e.Other),
			Amount:  e.Amount,
			Turn:    e.Turn.Turn,
			Day:     e.Turn.Day,
			Detail:  e.Detail,
		}
		if e.From != nil {
			rows[i].FromX, rows[i].FromY = &e.From.X, &e.From.Y
		}
		if e.To != nil {
			rows[i].ToX, rows[i].ToY = &e.To.X, &e.To.Y
		}
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("record %s events for match %s: %w", cmd.Kind, matchID, err)
	}
	r.seq[matchID] = next
	return nil
}

// Events returns a match's events in the order they happened.
func (r *Recorder) Events(ctx context.Context, matchID string) ([]EventRecord, error) {
	var out []EventRecord
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("seq ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("load events for match %s: %w", matchID, err)
	}
	return out, nil
}

// Matches lists recorded matches, newest first.
func (r *Recorder) Matches(ctx context.Context) ([]Match, error) {
	var out []Match
	if err := r.db.WithContext(ctx).Order("started_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// toJSON encodes v for a JSON column. A nil slice is stored as an empty
// array rather than null.
func toJSON(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}
