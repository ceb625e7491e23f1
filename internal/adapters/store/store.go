// Package store persists the catalog, the append-only event ledger and the
// review bookmarks in SQLite via GORM. The database is opened in WAL mode so
// report scans never block concurrent tagging writes; SQLite itself
// serializes writers, which is all the ledger needs since events are
// independent, immutable facts.
package store

import (
	"context"

	"github.com/gainline/gainline/internal/domain/aggregate"
	"github.com/gainline/gainline/internal/domain/model"
)

// Catalog provides CRUD over the static reference data: players, metrics,
// matches, teams and videos. Listing operations order deterministically so
// report layout is reproducible.
type Catalog interface {
	CreatePlayer(ctx context.Context, p *model.Player) error
	// UpdatePlayer changes name and position; the active flag is owned
	// by SetPlayerActive and is never touched here.
	UpdatePlayer(ctx context.Context, p *model.Player) error
	SetPlayerActive(ctx context.Context, id uint, active bool) error
	// DeletePlayer hard-deletes a player and cascades to their events and
	// roster rows. Destructive and non-recoverable; prefer SetPlayerActive.
	DeletePlayer(ctx context.Context, id uint) error
	GetPlayer(ctx context.Context, id uint) (model.Player, error)
	ListPlayers(ctx context.Context) ([]model.Player, error)

	// CreateMetric fails with ErrDuplicateKey if the key already exists
	// (case-sensitive exact match).
	CreateMetric(ctx context.Context, m *model.Metric) error
	// UpdateMetric may change label, group, kind, weight, per-80 flag and
	// active flag, but never the key.
	UpdateMetric(ctx context.Context, m *model.Metric) error
	SetMetricActive(ctx context.Context, id uint, active bool) error
	// DeleteMetric removes the catalog row but leaves historical events in
	// place; those events stop contributing to aggregation. Retiring via
	// SetMetricActive is the safer contract.
	DeleteMetric(ctx context.Context, id uint) error
	GetMetric(ctx context.Context, id uint) (model.Metric, error)
	ListMetrics(ctx context.Context, onlyActive bool) ([]model.Metric, error)

	CreateMatch(ctx context.Context, m *model.Match) error
	// FindOrCreateMatch reuses an existing match with the same (opponent,
	// date) pair if one exists. A convenience heuristic, not a uniqueness
	// constraint: CreateMatch never deduplicates.
	FindOrCreateMatch(ctx context.Context, opponent, date string) (model.Match, error)
	// DeleteMatch cascades to the match's events, videos and moments.
	DeleteMatch(ctx context.Context, id uint) error
	ListMatches(ctx context.Context) ([]model.Match, error)

	// CreateTeam fails with ErrDuplicateKey on an existing team name.
	CreateTeam(ctx context.Context, t *model.Team) error
	ListTeams(ctx context.Context) ([]model.Team, error)
	AddToRoster(ctx context.Context, teamID, playerID uint) error
	RemoveFromRoster(ctx context.Context, teamID, playerID uint) error
	ListRoster(ctx context.Context, teamID uint) ([]model.Player, error)

	AddVideo(ctx context.Context, v *model.Video) error
	ListVideos(ctx context.Context, matchID uint) ([]model.Video, error)
	// DeleteVideo cascades to the video's moments.
	DeleteVideo(ctx context.Context, id uint) error
}

// EventLog is the append-only ledger of tagged events, the system of record
// for all derived statistics.
type EventLog interface {
	// LogEvent appends one row with a server-assigned id and timestamp. The
	// value defaults to 1 when zero. Fails with ErrReference if the match,
	// player or metric does not exist. No uniqueness constraint applies: the
	// same triple may be logged arbitrarily many times.
	LogEvent(ctx context.Context, matchID, playerID, metricID uint, value float64) (model.Event, error)

	// ListRecent returns up to limit of the newest events for a match,
	// newest first, joined with player name and metric label for display.
	ListRecent(ctx context.Context, matchID uint, limit int) ([]model.RecentEvent, error)

	// DeleteEvent hard-deletes a ledger row. The ledger offers no undo.
	DeleteEvent(ctx context.Context, id uint) error

	CountEvents(ctx context.Context) (int64, error)

	// Snapshot loads the full ledger plus catalog for aggregation. A single
	// read transaction, so writers are never blocked.
	Snapshot(ctx context.Context) (aggregate.Snapshot, error)
}

// Moments stores timestamped review bookmarks against match videos.
type Moments interface {
	// AddMoment fails with ErrReference if the match or video is missing.
	AddMoment(ctx context.Context, m *model.Moment) error
	UpdateMomentNote(ctx context.Context, id uint, note string) error
	DeleteMoment(ctx context.Context, id uint) error
	// ListMoments orders by video timestamp ascending.
	ListMoments(ctx context.Context, matchID, videoID uint) ([]model.Moment, error)
}

// Store bundles the persistence contracts backed by one database.
type Store interface {
	Catalog
	EventLog
	Moments

	Close() error
}
