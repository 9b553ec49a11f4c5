package query

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eldtechnologies/journeyboard/clients/go/journey"
	"github.com/eldtechnologies/journeyboard/internal/metrics"
	"github.com/eldtechnologies/journeyboard/internal/models"
	"github.com/eldtechnologies/journeyboard/internal/store"
)

// Defaults for the two dashboard queries.
const (
	JourneyStaleTime = 5 * time.Minute
	JourneyRetry     = 1
	AgentsStaleTime  = 10 * time.Minute
	AgentsRetry      = 3
)

// Backend is the part of the journey API the queries read from.
type Backend interface {
	GetMemberJourneyData(ctx context.Context, memberID string) (*models.JourneyData, error)
	GetAgents(ctx context.Context) ([]models.Agent, error)
}

// Journeys is the per-member journey query.
type Journeys struct {
	q         *Query[*models.JourneyData]
	snapshots store.SnapshotStore
	logger    zerolog.Logger
}

// NewJourneys creates the journey query. snapshots may be nil.
func NewJourneys(backend Backend, cache Cache, snapshots store.SnapshotStore, opts Options, logger zerolog.Logger) *Journeys {
	j := &Journeys{snapshots: snapshots, logger: logger}
	j.q = New("journey", cache, func(ctx context.Context, memberID string) (*models.JourneyData, error) {
		data, err := backend.GetMemberJourneyData(ctx, memberID)
		if err != nil {
			return nil, err
		}
		j.save(ctx, memberID, data)
		return data, nil
	}, opts, logger)
	return j
}

// Get returns the journey for memberID. An empty id yields the built-in demo
// journey. When the backend fails and a snapshot exists, the snapshot is
// returned marked Stale.
func (j *Journeys) Get(ctx context.Context, memberID string) Result[*models.JourneyData] {
	if memberID == "" {
		return Result[*models.JourneyData]{Data: journey.MockJourneyData(), FetchedAt: time.Now().UTC()}
	}

	res := j.q.Get(ctx, memberID)
	if res.Err == nil || j.snapshots == nil {
		return res
	}

	data, snap, err := j.snapshots.LoadJourney(ctx, memberID)
	if err != nil {
		j.logger.Warn().Err(err).Str("member_id", memberID).Msg("snapshot lookup failed")
		return res
	}
	if data == nil {
		return res
	}

	metrics.SnapshotFallbacks.Inc()
	j.logger.Warn().
		Err(res.Err).
		Str("member_id", memberID).
		Str("snapshot_id", snap.ID).
		Msg("serving journey snapshot")
	return Result[*models.JourneyData]{Data: data, Stale: true, FetchedAt: snap.CreatedAt}
}

// State reports the query state for memberID.
func (j *Journeys) State(ctx context.Context, memberID string) State[*models.JourneyData] {
	return j.q.State(ctx, memberID)
}

// Invalidate drops the cached journey for memberID.
func (j *Journeys) Invalidate(ctx context.Context, memberID string) error {
	return j.q.Invalidate(ctx, memberID)
}

func (j *Journeys) save(ctx context.Context, memberID string, data *models.JourneyData) {
	if j.snapshots == nil {
		return
	}
	snap, err := j.snapshots.SaveJourney(ctx, memberID, data)
	if err != nil {
		j.logger.Warn().Err(err).Str("member_id", memberID).Msg("snapshot save failed")
		return
	}
	metrics.SnapshotsSaved.Inc()
	j.logger.Debug().Str("member_id", memberID).Str("snapshot_id", snap.ID).Msg("journey snapshot saved")
}

// Agents is the global agent roster query.
type Agents struct {
	q *Query[[]models.Agent]
}

// NewAgents creates the agents query.
func NewAgents(backend Backend, cache Cache, opts Options, logger zerolog.Logger) *Agents {
	return &Agents{q: New("agents", cache, func(ctx context.Context, _ string) ([]models.Agent, error) {
		return backend.GetAgents(ctx)
	}, opts, logger)}
}

// Get returns the agent roster.
func (a *Agents) Get(ctx context.Context) Result[[]models.Agent] {
	return a.q.Get(ctx, "")
}

// State reports the roster query state.
func (a *Agents) State(ctx context.Context) State[[]models.Agent] {
	return a.q.State(ctx, "")
}

// Invalidate drops the cached roster.
func (a *Agents) Invalidate(ctx context.Context) error {
	return a.q.Invalidate(ctx, "")
}
