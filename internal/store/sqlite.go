package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/journeyboard.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/journeyboard.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS journey_snapshots (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		member_name TEXT DEFAULT '',
		message_count INTEGER DEFAULT 0,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_member ON journey_snapshots(member_id, id);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SaveJourney stores a snapshot of a member's journey.
func (s *SQLiteStore) SaveJourney(ctx context.Context, memberID string, data *models.JourneyData) (*models.Snapshot, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		ID:           ulid.Make().String(),
		MemberID:     memberID,
		MemberName:   data.Member.Name,
		MessageCount: len(data.Messages),
		CreatedAt:    time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO journey_snapshots (id, member_id, member_name, message_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.MemberID, snap.MemberName, snap.MessageCount, string(payload), snap.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM journey_snapshots
		WHERE member_id = ? AND id NOT IN (
			SELECT id FROM journey_snapshots WHERE member_id = ? ORDER BY id DESC LIMIT ?
		)
	`, memberID, memberID, keepPerMember)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadJourney returns the newest snapshot for a member.
func (s *SQLiteStore) LoadJourney(ctx context.Context, memberID string) (*models.JourneyData, *models.Snapshot, error) {
	snap := &models.Snapshot{}
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, member_id, member_name, message_count, payload, created_at
		FROM journey_snapshots WHERE member_id = ?
		ORDER BY id DESC LIMIT 1
	`, memberID).Scan(
		&snap.ID,
		&snap.MemberID,
		&snap.MemberName,
		&snap.MessageCount,
		&payload,
		&snap.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var data models.JourneyData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, nil, err
	}
	data.Normalize()
	return &data, snap, nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, member_id, member_name, message_count, created_at
		FROM journey_snapshots
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		if err := rows.Scan(&snap.ID, &snap.MemberID, &snap.MemberName, &snap.MessageCount, &snap.CreatedAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
