package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	store := &PostgresStore{pool: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS journey_snapshots (
			id TEXT PRIMARY KEY,
			member_id TEXT NOT NULL,
			member_name TEXT NOT NULL DEFAULT '',
			message_count INTEGER NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_member ON journey_snapshots(member_id, id);
	`)
	return err
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// SaveJourney stores a snapshot of a member's journey.
func (s *PostgresStore) SaveJourney(ctx context.Context, memberID string, data *models.JourneyData) (*models.Snapshot, error) {
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

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO journey_snapshots (id, member_id, member_name, message_count, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, snap.ID, snap.MemberID, snap.MemberName, snap.MessageCount, payload, snap.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			DELETE FROM journey_snapshots
			WHERE member_id = $1 AND id NOT IN (
				SELECT id FROM journey_snapshots WHERE member_id = $1 ORDER BY id DESC LIMIT $2
			)
		`, memberID, keepPerMember)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// LoadJourney returns the newest snapshot for a member.
func (s *PostgresStore) LoadJourney(ctx context.Context, memberID string) (*models.JourneyData, *models.Snapshot, error) {
	snap := &models.Snapshot{}
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, member_id, member_name, message_count, payload, created_at
		FROM journey_snapshots WHERE member_id = $1
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var data models.JourneyData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, nil, err
	}
	data.Normalize()
	return &data, snap, nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (s *PostgresStore) ListSnapshots(ctx context.Context, limit int) ([]models.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, member_id, member_name, message_count, created_at
		FROM journey_snapshots
		ORDER BY id DESC
		LIMIT $1
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
