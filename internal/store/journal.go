// Package store keeps the placement journal in a SQLite database.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/piwi3910/RoomFit/internal/model"
)

// DB is a placement journal. It satisfies engine.Journal.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the journal database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS placement_events (
			event_id          INTEGER PRIMARY KEY AUTOINCREMENT,
			instance_id       TEXT NOT NULL,
			room_id           INTEGER NOT NULL,
			action            TEXT NOT NULL,
			pivot_x           INTEGER NOT NULL,
			pivot_z           INTEGER NOT NULL,
			rotation          INTEGER NOT NULL,
			at_unix_nano      BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_placement_events_instance
			ON placement_events (instance_id, event_id);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db}, nil
}

// Record appends one event to the journal.
func (db *DB) Record(ev model.PlacementEvent) error {
	if ev.InstanceID == "" {
		return fmt.Errorf("placement event without instance id")
	}
	if ev.Action != model.ActionPlace && ev.Action != model.ActionUnplace {
		return fmt.Errorf("unknown placement action %q", ev.Action)
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	_, err := db.Exec(
		`INSERT INTO placement_events (
			instance_id, room_id, action, pivot_x, pivot_z, rotation, at_unix_nano
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.InstanceID, ev.RoomID, string(ev.Action), ev.PivotCell.X, ev.PivotCell.Z, ev.Rotation, ev.At.UnixNano(),
	)
	return err
}

const eventColumns = `instance_id, room_id, action, pivot_x, pivot_z, rotation, at_unix_nano`

func scanEvents(rows *sql.Rows) ([]model.PlacementEvent, error) {
	defer rows.Close()
	var events []model.PlacementEvent
	for rows.Next() {
		var ev model.PlacementEvent
		var action string
		var at int64
		if err := rows.Scan(&ev.InstanceID, &ev.RoomID, &action, &ev.PivotCell.X, &ev.PivotCell.Z, &ev.Rotation, &at); err != nil {
			return nil, err
		}
		ev.Action = model.PlacementAction(action)
		ev.At = time.Unix(0, at).UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

// History returns every event of one item, oldest first.
func (db *DB) History(instanceID string) ([]model.PlacementEvent, error) {
	rows, err := db.Query(
		`SELECT `+eventColumns+` FROM placement_events WHERE instance_id = ? ORDER BY event_id`,
		instanceID,
	)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// RoomHistory returns every event recorded for a room, oldest first.
func (db *DB) RoomHistory(roomID int) ([]model.PlacementEvent, error) {
	rows, err := db.Query(
		`SELECT `+eventColumns+` FROM placement_events WHERE room_id = ? ORDER BY event_id`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// LatestPlacements returns, per item, the last event when that event placed
// the item. Items whose last event removed them are omitted.
func (db *DB) LatestPlacements() (map[string]model.PlacementEvent, error) {
	rows, err := db.Query(
		`SELECT ` + eventColumns + ` FROM placement_events e
		WHERE e.event_id = (
			SELECT MAX(event_id) FROM placement_events WHERE instance_id = e.instance_id
		) AND e.action = 'place'
		ORDER BY e.event_id`,
	)
	if err != nil {
		return nil, err
	}
	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]model.PlacementEvent, len(events))
	for _, ev := range events {
		latest[ev.InstanceID] = ev
	}
	return latest, nil
}

// Count returns the number of journaled events.
func (db *DB) Count() (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM placement_events`).Scan(&n)
	return n, err
}
