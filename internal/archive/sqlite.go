// Package archive provides the event sinks that record REPL traffic:
// a durable SQLite archive, an in-memory buffer for display and tests,
// and a sink that mirrors events into the structured log.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/fonny-io/fonny/internal/event"
)

// schema holds one row per recorded event, with the payload as JSON.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	timestamp TEXT NOT NULL,
	data TEXT NOT NULL
)`

// StoredEvent is an event read back from the archive, with its
// insertion id. Ids are monotonically increasing, so ordering by id
// reproduces recording order.
type StoredEvent struct {
	ID        int64
	Kind      event.Kind
	Timestamp time.Time
	Payload   map[string]string
}

// SQLite is a durable event sink backed by an SQLite database file.
// It is safe for concurrent use; database/sql serializes access.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if necessary) the archive database at the
// given path and ensures the schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing archive schema: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// Record inserts the event. Implements event.Sink.
func (s *SQLite) Record(e event.Event) error {
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return fmt.Errorf("encoding event payload: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO events (event_type, timestamp, data) VALUES (?, ?, ?)",
		e.Kind.String(), e.Timestamp.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// Events returns every recorded event of the given kind in recording
// order.
func (s *SQLite) Events(kind event.Kind) ([]StoredEvent, error) {
	return s.query(
		"SELECT id, event_type, timestamp, data FROM events WHERE event_type = ? ORDER BY id",
		kind.String(),
	)
}

// AllEvents returns every recorded event in recording order.
func (s *SQLite) AllEvents() ([]StoredEvent, error) {
	return s.query("SELECT id, event_type, timestamp, data FROM events ORDER BY id")
}

// query runs a SELECT over the events table and decodes the rows.
func (s *SQLite) query(q string, args ...any) ([]StoredEvent, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []StoredEvent
	for rows.Next() {
		var (
			stored StoredEvent
			kind   string
			ts     string
			data   string
		)
		if err := rows.Scan(&stored.ID, &kind, &ts, &data); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}

		stored.Kind = event.Kind(kind)
		if stored.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing event timestamp %q: %w", ts, err)
		}
		if err := json.Unmarshal([]byte(data), &stored.Payload); err != nil {
			return nil, fmt.Errorf("decoding event payload: %w", err)
		}
		events = append(events, stored)
	}
	return events, rows.Err()
}

// Clear removes every recorded event.
func (s *SQLite) Clear() error {
	if _, err := s.db.Exec("DELETE FROM events"); err != nil {
		return fmt.Errorf("clearing events: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.path
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
