// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gainline/gainline/internal/adapters/store"
	"github.com/gainline/gainline/internal/domain/aggregate"
	"github.com/gainline/gainline/internal/domain/auth"
	"github.com/gainline/gainline/internal/domain/hotkeys"
	"github.com/gainline/gainline/internal/domain/model"
	"github.com/gainline/gainline/internal/domain/types"
	"github.com/gainline/gainline/pkg/logger"
	"github.com/gainline/gainline/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultDBPath              = "gainline.db"
	defaultMaxLeaderboardLimit = 100
	defaultRecentLimit         = 20
)

// Service wires the catalog store, the event ledger, the aggregation engine
// and the hotkey mapper behind capability-checked operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  store.Store
	engine *aggregate.Engine
	mapper hotkeys.Mapper

	// Configuration
	dbPath              string
	maxLeaderboardLimit int
	recentLimit         int
	minutesMetricKey    string
	matchMinutes        float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbPath:              defaultDBPath,
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		recentLimit:         defaultRecentLimit,
		minutesMetricKey:    "minutes",
		matchMinutes:        80,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components. The store is opened here unless
// one was injected for testing.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting stats service...")

	if s.store == nil {
		st, err := store.Open(ctx, s.dbPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		s.store = st
		s.logger.Info(ctx, "using sqlite store", logger.String("path", s.dbPath))
	}
	s.engine = aggregate.New(
		aggregate.WithMinutesMetricKey(s.minutesMetricKey),
		aggregate.WithMatchMinutes(s.matchMinutes),
	)
	s.mapper = hotkeys.NewInMemoryMapper()

	s.started = true
	s.logger.Info(ctx, "stats service started",
		logger.Int("maxLeaderboardLimit", s.maxLeaderboardLimit),
		logger.Int("recentLimit", s.recentLimit),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error(context.Background(), "closing store", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(context.Background(), "stats service stopped")
}

// requireWrite refuses the operation unless the context role may write.
func (s *Service) requireWrite(ctx context.Context) error {
	if err := auth.RequireWrite(ctx); err != nil {
		metrics.RecordPermissionDenied()
		return err
	}
	return nil
}

// requireAdmin refuses the operation unless the context role is admin.
func (s *Service) requireAdmin(ctx context.Context) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		metrics.RecordPermissionDenied()
		return err
	}
	return nil
}

// ---- players ----

func (s *Service) CreatePlayer(ctx context.Context, name, position string) (model.Player, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Player{}, err
	}
	p := model.Player{Name: name, Position: position}
	if err := s.store.CreatePlayer(ctx, &p); err != nil {
		return model.Player{}, err
	}
	s.logger.Debug(ctx, "player created", logger.Uint("id", p.ID), logger.String("name", p.Name))
	return p, nil
}

func (s *Service) UpdatePlayer(ctx context.Context, p model.Player) (model.Player, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Player{}, err
	}
	if err := s.store.UpdatePlayer(ctx, &p); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

func (s *Service) SetPlayerActive(ctx context.Context, id uint, active bool) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	return s.store.SetPlayerActive(ctx, id, active)
}

// DeletePlayer is the destructive escape hatch: it removes the player and
// their ledger history. SetPlayerActive is the recoverable path.
func (s *Service) DeletePlayer(ctx context.Context, id uint) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	s.logger.Warn(ctx, "hard-deleting player and history", logger.Uint("id", id))
	return s.store.DeletePlayer(ctx, id)
}

func (s *Service) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.store.ListPlayers(ctx)
}

// ---- metrics catalog ----

func (s *Service) CreateMetric(ctx context.Context, m model.Metric) (model.Metric, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return model.Metric{}, err
	}
	if err := s.store.CreateMetric(ctx, &m); err != nil {
		return model.Metric{}, err
	}
	return m, nil
}

func (s *Service) UpdateMetric(ctx context.Context, m model.Metric) (model.Metric, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return model.Metric{}, err
	}
	if err := s.store.UpdateMetric(ctx, &m); err != nil {
		return model.Metric{}, err
	}
	return m, nil
}

func (s *Service) SetMetricActive(ctx context.Context, id uint, active bool) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.store.SetMetricActive(ctx, id, active)
}

// DeleteMetric removes the definition but not its events; their contribution
// silently drops out of the reports. Retiring keeps history scoring-visible.
func (s *Service) DeleteMetric(ctx context.Context, id uint) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	s.logger.Warn(ctx, "deleting metric; historical events will be excluded from reports", logger.Uint("id", id))
	return s.store.DeleteMetric(ctx, id)
}

func (s *Service) ListMetrics(ctx context.Context, onlyActive bool) ([]model.Metric, error) {
	return s.store.ListMetrics(ctx, onlyActive)
}

// ---- matches, teams, videos ----

func (s *Service) CreateMatch(ctx context.Context, opponent, date string) (model.Match, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Match{}, err
	}
	m := model.Match{Opponent: opponent, Date: date}
	if err := s.store.CreateMatch(ctx, &m); err != nil {
		return model.Match{}, err
	}
	return m, nil
}

func (s *Service) FindOrCreateMatch(ctx context.Context, opponent, date string) (model.Match, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Match{}, err
	}
	return s.store.FindOrCreateMatch(ctx, opponent, date)
}

func (s *Service) DeleteMatch(ctx context.Context, id uint) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.store.DeleteMatch(ctx, id)
}

func (s *Service) ListMatches(ctx context.Context) ([]model.Match, error) {
	return s.store.ListMatches(ctx)
}

func (s *Service) CreateTeam(ctx context.Context, name string) (model.Team, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return model.Team{}, err
	}
	t := model.Team{Name: name}
	if err := s.store.CreateTeam(ctx, &t); err != nil {
		return model.Team{}, err
	}
	return t, nil
}

func (s *Service) ListTeams(ctx context.Context) ([]model.Team, error) {
	return s.store.ListTeams(ctx)
}

func (s *Service) AddToRoster(ctx context.Context, teamID, playerID uint) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	return s.store.AddToRoster(ctx, teamID, playerID)
}

func (s *Service) RemoveFromRoster(ctx context.Context, teamID, playerID uint) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	return s.store.RemoveFromRoster(ctx, teamID, playerID)
}

func (s *Service) ListRoster(ctx context.Context, teamID uint) ([]model.Player, error) {
	return s.store.ListRoster(ctx, teamID)
}

func (s *Service) AddVideo(ctx context.Context, v model.Video) (model.Video, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Video{}, err
	}
	if err := s.store.AddVideo(ctx, &v); err != nil {
		return model.Video{}, err
	}
	return v, nil
}

func (s *Service) ListVideos(ctx context.Context, matchID uint) ([]model.Video, error) {
	return s.store.ListVideos(ctx, matchID)
}

func (s *Service) DeleteVideo(ctx context.Context, id uint) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.store.DeleteVideo(ctx, id)
}

// ---- event ledger ----

func (s *Service) LogEvent(ctx context.Context, matchID, playerID, metricID uint, value float64) (model.Event, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Event{}, err
	}
	ev, err := s.store.LogEvent(ctx, matchID, playerID, metricID, value)
	if err != nil {
		metrics.RecordStoreError()
		return model.Event{}, err
	}
	metrics.RecordEventLogged()
	s.logger.Debug(ctx, "event logged",
		logger.Uint("event", ev.ID),
		logger.Uint("match", matchID),
		logger.Uint("player", playerID),
		logger.Uint("metric", metricID),
	)
	return ev, nil
}

func (s *Service) ListRecent(ctx context.Context, matchID uint, limit int) ([]model.RecentEvent, error) {
	if limit <= 0 || limit > s.recentLimit {
		limit = s.recentLimit
	}
	return s.store.ListRecent(ctx, matchID, limit)
}

func (s *Service) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return err
	}
	metrics.RecordEventDeleted()
	return nil
}

// ---- reports ----

// Totals recomputes the sparse totals table from the full ledger.
func (s *Service) Totals(ctx context.Context) ([]types.TotalRow, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows := s.engine.Totals(ctx, snap)
	metrics.RecordReportDuration("totals", float64(time.Since(start).Milliseconds()))
	return rows, nil
}

// Per80 recomputes per-80-minute rates from the full ledger.
func (s *Service) Per80(ctx context.Context) ([]types.RateRow, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	rows := s.engine.Per80(ctx, snap)
	metrics.RecordReportDuration("per80", float64(time.Since(start).Milliseconds()))
	return rows, nil
}

// Leaderboard recomputes the weighted ranking. The limit is capped by
// configuration; 0 or less means the configured maximum.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	if limit <= 0 || limit > s.maxLeaderboardLimit {
		limit = s.maxLeaderboardLimit
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	entries := s.engine.Leaderboard(ctx, snap, limit)
	metrics.RecordReportDuration("leaderboard", float64(time.Since(start).Milliseconds()))
	return entries, nil
}

// ---- hotkeys ----

func (s *Service) BindHotkey(ctx context.Context, symbol string, metricID uint) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	if symbol == "" {
		return fmt.Errorf("%w: hotkey symbol required", store.ErrValidation)
	}
	if _, err := s.store.GetMetric(ctx, metricID); err != nil {
		return err
	}
	s.mapper.Bind(ctx, symbol, metricID)
	return nil
}

func (s *Service) ResolveHotkey(ctx context.Context, symbol string) (uint, bool) {
	return s.mapper.Resolve(ctx, symbol)
}

func (s *Service) UnbindHotkey(ctx context.Context, symbol string) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	s.mapper.Unbind(ctx, symbol)
	return nil
}

func (s *Service) ClearHotkeys(ctx context.Context) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	s.mapper.ClearAll(ctx)
	return nil
}

func (s *Service) HotkeyBindings(ctx context.Context) map[string]uint {
	return s.mapper.Bindings(ctx)
}

// LoadHotkeyPreset binds a built-in preset against the active catalog.
// Preset entries whose label is not an active metric are skipped silently.
func (s *Service) LoadHotkeyPreset(ctx context.Context, name string) (int, error) {
	if err := s.requireWrite(ctx); err != nil {
		return 0, err
	}
	preset, ok := hotkeys.PresetByName(name)
	if !ok {
		return 0, fmt.Errorf("%w: preset %q", ErrUnknownPreset, name)
	}
	catalog, err := s.store.ListMetrics(ctx, true)
	if err != nil {
		return 0, err
	}
	bound := s.mapper.LoadPreset(ctx, preset, catalog)
	s.logger.Info(ctx, "hotkey preset loaded",
		logger.String("preset", name),
		logger.Int("bound", bound),
	)
	return bound, nil
}

// ---- moments ----

func (s *Service) AddMoment(ctx context.Context, m model.Moment) (model.Moment, error) {
	if err := s.requireWrite(ctx); err != nil {
		return model.Moment{}, err
	}
	if err := s.store.AddMoment(ctx, &m); err != nil {
		return model.Moment{}, err
	}
	return m, nil
}

func (s *Service) UpdateMomentNote(ctx context.Context, id uint, note string) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	return s.store.UpdateMomentNote(ctx, id, note)
}

func (s *Service) DeleteMoment(ctx context.Context, id uint) error {
	if err := s.requireWrite(ctx); err != nil {
		return err
	}
	return s.store.DeleteMoment(ctx, id)
}

func (s *Service) ListMoments(ctx context.Context, matchID, videoID uint) ([]model.Moment, error) {
	return s.store.ListMoments(ctx, matchID, videoID)
}

// ExportMomentsCSV renders the bookmarks for one video as a CSV table in
// the same timestamp-ascending order as ListMoments.
func (s *Service) ExportMomentsCSV(ctx context.Context, matchID, videoID uint) ([]byte, error) {
	moments, err := s.ListMoments(ctx, matchID, videoID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "match_id", "video_id", "video_ts", "note", "ts"}); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, m := range moments {
		row := []string{
			strconv.FormatUint(uint64(m.ID), 10),
			strconv.FormatUint(uint64(m.MatchID), 10),
			strconv.FormatUint(uint64(m.VideoID), 10),
			strconv.FormatFloat(m.VideoTS, 'f', -1, 64),
			m.Note,
			m.TS.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ---- stats ----

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":             s.started,
		"maxLeaderboardLimit": s.maxLeaderboardLimit,
		"recentLimit":         s.recentLimit,
	}
	if !s.started {
		return stats
	}

	if players, err := s.store.ListPlayers(ctx); err == nil {
		stats["totalPlayers"] = len(players)
		metrics.UpdateTotalPlayers(len(players))
	}
	if defs, err := s.store.ListMetrics(ctx, false); err == nil {
		stats["totalMetrics"] = len(defs)
		metrics.UpdateTotalMetrics(len(defs))
	}
	if count, err := s.store.CountEvents(ctx); err == nil {
		stats["totalEvents"] = count
		metrics.UpdateTotalEvents(count)
	}
	stats["hotkeyBindings"] = len(s.mapper.Bindings(ctx))
	return stats
}
