package store

import (
	"context"

	"github.com/eldtechnologies/journeyboard/internal/models"
)

// keepPerMember is how many snapshots are retained for each member.
const keepPerMember = 10

// SnapshotStore defines the interface for persisting journey snapshots.
// Both PostgresStore and SQLiteStore implement this interface.
type SnapshotStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// SaveJourney stores a new snapshot of a member's journey and prunes
	// the oldest ones beyond the retention count.
	SaveJourney(ctx context.Context, memberID string, data *models.JourneyData) (*models.Snapshot, error)

	// LoadJourney returns the newest snapshot for a member, or nil data and
	// a nil error when none exists.
	LoadJourney(ctx context.Context, memberID string) (*models.JourneyData, *models.Snapshot, error)

	// ListSnapshots returns the most recent snapshots across members.
	ListSnapshots(ctx context.Context, limit int) ([]models.Snapshot, error)
}
