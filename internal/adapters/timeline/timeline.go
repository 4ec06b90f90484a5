// Package timeline persists verified events and deduplicates them
// against history by merged-from overlap.
package timeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultListLimit = 100
	driverName       = "sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id                      TEXT PRIMARY KEY,
	event_time              TEXT NOT NULL,
	type                    TEXT NOT NULL,
	severity                TEXT NOT NULL,
	title                   TEXT NOT NULL,
	description             TEXT NOT NULL DEFAULT '',
	location                TEXT NOT NULL DEFAULT '',
	confidence              REAL NOT NULL,
	verified                INTEGER NOT NULL,
	verification_confidence REAL NOT NULL,
	sources                 TEXT NOT NULL,
	merged_from             TEXT NOT NULL,
	discrepancies           TEXT NOT NULL DEFAULT '[]',
	updated_at              TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_time ON events(event_time DESC);

CREATE TABLE IF NOT EXISTS event_members (
	member_id TEXT PRIMARY KEY,
	event_id  TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE
);
`

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithListLimit overrides the default page size for ListSince.
func WithListLimit(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

// Store is the sqlite-backed timeline. A batch's events land in one
// transaction; an event whose merged-from set overlaps a stored event
// refreshes that row instead of inserting a duplicate.
type Store struct {
	db        *sql.DB
	listLimit int
}

// New opens (or creates) the timeline database at dsn. Use ":memory:"
// for an ephemeral store.
func New(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open timeline db: %w", err)
	}
	// sqlite is single-writer; one pooled connection also keeps
	// ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init timeline schema: %w", err)
	}

	s := &Store{
		db:        db,
		listLimit: defaultListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Upsert merges a batch of verified events into the timeline
// atomically. It returns how many events were newly inserted.
func (s *Store) Upsert(ctx context.Context, events []model.VerifiedEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin timeline tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	inserted := 0
	for i := range events {
		added, err := s.upsertOne(ctx, tx, &events[i])
		if err != nil {
			return 0, err
		}
		if added {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit timeline tx: %w", err)
	}

	if count, err := s.Count(ctx); err == nil {
		metrics.UpdateTimelineEvents(count)
	}
	return inserted, nil
}

// upsertOne resolves history-level duplication through the member
// table: any shared merged-from id means the stored event and the new
// one describe the same incident.
func (s *Store) upsertOne(ctx context.Context, tx *sql.Tx, event *model.VerifiedEvent) (bool, error) {
	// An event without merged-from ids dedups on its own id.
	members := event.MergedFrom
	if len(members) == 0 {
		members = []string{event.ID}
	}

	existingID, err := s.findByMembers(ctx, tx, members)
	if err != nil {
		return false, err
	}

	sources, _ := json.Marshal(event.Sources)
	mergedFrom, _ := json.Marshal(event.MergedFrom)
	discrepancies := []byte("[]")
	if event.Discrepancies != nil {
		discrepancies, _ = json.Marshal(event.Discrepancies)
	}

	targetID := event.ID
	if existingID != "" {
		targetID = existingID
		_, err = tx.ExecContext(ctx, `
			UPDATE events SET
				event_time = ?, type = ?, severity = ?, title = ?,
				description = ?, location = ?, confidence = ?,
				verified = ?, verification_confidence = ?,
				sources = ?, merged_from = ?, discrepancies = ?,
				updated_at = ?
			WHERE id = ?`,
			event.EventTime.UTC().Format(time.RFC3339Nano),
			string(event.Type), event.Severity.String(), event.Title,
			event.Description, event.Location, event.Confidence,
			boolToInt(event.Verified), event.VerificationConfidence,
			string(sources), string(mergedFrom), string(discrepancies),
			time.Now().UTC().Format(time.RFC3339Nano),
			existingID,
		)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO events (
				id, event_time, type, severity, title, description,
				location, confidence, verified, verification_confidence,
				sources, merged_from, discrepancies, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID,
			event.EventTime.UTC().Format(time.RFC3339Nano),
			string(event.Type), event.Severity.String(), event.Title,
			event.Description, event.Location, event.Confidence,
			boolToInt(event.Verified), event.VerificationConfidence,
			string(sources), string(mergedFrom), string(discrepancies),
			time.Now().UTC().Format(time.RFC3339Nano),
		)
	}
	if err != nil {
		return false, fmt.Errorf("write timeline event: %w", err)
	}

	for _, member := range members {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO event_members (member_id, event_id) VALUES (?, ?)`,
			member, targetID,
		); err != nil {
			return false, fmt.Errorf("write timeline member: %w", err)
		}
	}
	return existingID == "", nil
}

// findByMembers returns the stored event id sharing any merged-from
// member with the incoming event, or "".
func (s *Store) findByMembers(ctx context.Context, tx *sql.Tx, members []string) (string, error) {
	placeholders := strings.Repeat("?,", len(members))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}

	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT event_id FROM event_members WHERE member_id IN (`+placeholders+`) LIMIT 1`,
		args...,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query timeline members: %w", err)
	}
	return id, nil
}

// ListSince returns events with event time at or after since, newest
// first, capped at limit (0 means the configured default).
func (s *Store) ListSince(ctx context.Context, since time.Time, limit int) ([]model.VerifiedEvent, error) {
	if limit <= 0 {
		limit = s.listLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_time, type, severity, title, description,
			location, confidence, verified, verification_confidence,
			sources, merged_from, discrepancies
		FROM events
		WHERE event_time >= ?
		ORDER BY event_time DESC
		LIMIT ?`,
		since.UTC().Format(time.RFC3339Nano), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query timeline: %w", err)
	}
	defer rows.Close()

	var events []model.VerifiedEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Count returns the number of stored events.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count timeline events: %w", err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanEvent(rows *sql.Rows) (model.VerifiedEvent, error) {
	var event model.VerifiedEvent
	var eventTime, severity string
	var verified int
	var sourcesRaw, mergedFromRaw, discrepanciesRaw string
	if err := rows.Scan(
		&event.ID, &eventTime, &event.Type, &severity, &event.Title,
		&event.Description, &event.Location, &event.Confidence,
		&verified, &event.VerificationConfidence,
		&sourcesRaw, &mergedFromRaw, &discrepanciesRaw,
	); err != nil {
		return event, fmt.Errorf("scan timeline event: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, eventTime)
	if err != nil {
		return event, fmt.Errorf("parse timeline event time: %w", err)
	}
	event.EventTime = t
	event.Verified = verified != 0
	if err := event.Severity.UnmarshalJSON([]byte(`"` + severity + `"`)); err != nil {
		return event, fmt.Errorf("parse timeline severity: %w", err)
	}
	_ = json.Unmarshal([]byte(sourcesRaw), &event.Sources)
	_ = json.Unmarshal([]byte(mergedFromRaw), &event.MergedFrom)
	_ = json.Unmarshal([]byte(discrepanciesRaw), &event.Discrepancies)
	return event, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
