package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gainline/gainline/internal/domain/model"
)

// Default store configuration constants.
const (
	defaultJournalMode   = "WAL"
	defaultBusyTimeoutMS = 5000
)

// gormStore implements Store on a GORM SQLite database.
type gormStore struct {
	db *gorm.DB

	journalMode   string
	busyTimeoutMS int
}

// Open opens (creating if necessary) the SQLite database at path and
// migrates the schema. Use ":memory:" or a file: URI for tests.
func Open(ctx context.Context, path string, opts ...Option) (Store, error) {
	s := &gormStore{
		journalMode:   defaultJournalMode,
		busyTimeoutMS: defaultBusyTimeoutMS,
	}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db = db.WithContext(ctx)

	if err := db.Exec(fmt.Sprintf("PRAGMA journal_mode=%s", s.journalMode)).Error; err != nil {
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", s.busyTimeoutMS)).Error; err != nil {
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Player{},
		&model.Metric{},
		&model.Match{},
		&model.Team{},
		&model.RosterEntry{},
		&model.Event{},
		&model.Video{},
		&model.Moment{},
	); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	s.db = db
	return s, nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying connection: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// ---- players ----

func (s *gormStore) CreatePlayer(ctx context.Context, p *model.Player) error {
	if p.Name == "" {
		return fmt.Errorf("%w: player name required", ErrValidation)
	}
	p.Active = true
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	return nil
}

func (s *gormStore) UpdatePlayer(ctx context.Context, p *model.Player) error {
	if p.Name == "" {
		return fmt.Errorf("%w: player name required", ErrValidation)
	}
	var existing model.Player
	if err := s.db.WithContext(ctx).First(&existing, p.ID).Error; err != nil {
		return translate(err, "player")
	}
	existing.Name = p.Name
	existing.Position = p.Position
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("updating player: %w", err)
	}
	*p = existing
	return nil
}

func (s *gormStore) SetPlayerActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("toggling player: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: player %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) DeletePlayer(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Player
		if err := tx.First(&p, id).Error; err != nil {
			return translate(err, "player")
		}
		if err := tx.Where("player_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return fmt.Errorf("deleting player events: %w", err)
		}
		if err := tx.Where("player_id = ?", id).Delete(&model.RosterEntry{}).Error; err != nil {
			return fmt.Errorf("deleting roster rows: %w", err)
		}
		if err := tx.Delete(&model.Player{}, id).Error; err != nil {
			return fmt.Errorf("deleting player: %w", err)
		}
		return nil
	})
}

func (s *gormStore) GetPlayer(ctx context.Context, id uint) (model.Player, error) {
	var p model.Player
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Player{}, translate(err, "player")
	}
	return p, nil
}

func (s *gormStore) ListPlayers(ctx context.Context) ([]model.Player, error) {
	var players []model.Player
	if err := s.db.WithContext(ctx).Order("name, id").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	return players, nil
}

// ---- metrics ----

func (s *gormStore) CreateMetric(ctx context.Context, m *model.Metric) error {
	if m.Key == "" || m.Label == "" {
		return fmt.Errorf("%w: metric key and label required", ErrValidation)
	}
	if !m.Group.Valid() {
		return fmt.Errorf("%w: unknown metric group %q", ErrValidation, m.Group)
	}
	if m.Kind == "" {
		m.Kind = model.KindCount
	}
	if m.Kind != model.KindCount && m.Kind != model.KindValue {
		return fmt.Errorf("%w: unknown metric kind %q", ErrValidation, m.Kind)
	}
	m.Active = true
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Metric{}).Where("key = ?", m.Key).Count(&count).Error; err != nil {
			return fmt.Errorf("checking metric key: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: metric key %q", ErrDuplicateKey, m.Key)
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("creating metric: %w", err)
		}
		return nil
	})
}

func (s *gormStore) UpdateMetric(ctx context.Context, m *model.Metric) error {
	if m.Label == "" {
		return fmt.Errorf("%w: metric label required", ErrValidation)
	}
	if !m.Group.Valid() {
		return fmt.Errorf("%w: unknown metric group %q", ErrValidation, m.Group)
	}
	if m.Kind != "" && m.Kind != model.KindCount && m.Kind != model.KindValue {
		return fmt.Errorf("%w: unknown metric kind %q", ErrValidation, m.Kind)
	}
	var existing model.Metric
	if err := s.db.WithContext(ctx).First(&existing, m.ID).Error; err != nil {
		return translate(err, "metric")
	}
	// The key is immutable once the metric exists; only the display and
	// scoring attributes may change. An empty kind keeps the stored one.
	existing.Label = m.Label
	existing.Group = m.Group
	if m.Kind != "" {
		existing.Kind = m.Kind
	}
	existing.IncludePer80 = m.IncludePer80
	existing.Weight = m.Weight
	existing.Active = m.Active
	if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return fmt.Errorf("updating metric: %w", err)
	}
	*m = existing
	return nil
}

func (s *gormStore) SetMetricActive(ctx context.Context, id uint, active bool) error {
	res := s.db.WithContext(ctx).Model(&model.Metric{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("toggling metric: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: metric %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) DeleteMetric(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Metric{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting metric: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: metric %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) GetMetric(ctx context.Context, id uint) (model.Metric, error) {
	var m model.Metric
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return model.Metric{}, translate(err, "metric")
	}
	return m, nil
}

func (s *gormStore) ListMetrics(ctx context.Context, onlyActive bool) ([]model.Metric, error) {
	q := s.db.WithContext(ctx).Order("group_name, label, id")
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	var metrics []model.Metric
	if err := q.Find(&metrics).Error; err != nil {
		return nil, fmt.Errorf("listing metrics: %w", err)
	}
	return metrics, nil
}

// ---- matches ----

func (s *gormStore) CreateMatch(ctx context.Context, m *model.Match) error {
	if m.Opponent == "" || m.Date == "" {
		return fmt.Errorf("%w: match opponent and date required", ErrValidation)
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("creating match: %w", err)
	}
	return nil
}

func (s *gormStore) FindOrCreateMatch(ctx context.Context, opponent, date string) (model.Match, error) {
	if opponent == "" || date == "" {
		return model.Match{}, fmt.Errorf("%w: match opponent and date required", ErrValidation)
	}
	var m model.Match
	err := s.db.WithContext(ctx).Where("opponent = ? AND date = ?", opponent, date).First(&m).Error
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Match{}, fmt.Errorf("finding match: %w", err)
	}
	m = model.Match{Opponent: opponent, Date: date}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Match{}, fmt.Errorf("creating match: %w", err)
	}
	return m, nil
}

func (s *gormStore) DeleteMatch(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Match
		if err := tx.First(&m, id).Error; err != nil {
			return translate(err, "match")
		}
		if err := tx.Where("match_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return fmt.Errorf("deleting match events: %w", err)
		}
		if err := tx.Where("match_id = ?", id).Delete(&model.Moment{}).Error; err != nil {
			return fmt.Errorf("deleting match moments: %w", err)
		}
		if err := tx.Where("match_id = ?", id).Delete(&model.Video{}).Error; err != nil {
			return fmt.Errorf("deleting match videos: %w", err)
		}
		if err := tx.Delete(&model.Match{}, id).Error; err != nil {
			return fmt.Errorf("deleting match: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListMatches(ctx context.Context) ([]model.Match, error) {
	var matches []model.Match
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	return matches, nil
}

// ---- teams ----

func (s *gormStore) CreateTeam(ctx context.Context, t *model.Team) error {
	if t.Name == "" {
		return fmt.Errorf("%w: team name required", ErrValidation)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Team{}).Where("name = ?", t.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("checking team name: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: team name %q", ErrDuplicateKey, t.Name)
		}
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("creating team: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := s.db.WithContext(ctx).Order("name, id").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	return teams, nil
}

func (s *gormStore) AddToRoster(ctx context.Context, teamID, playerID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team model.Team
		if err := tx.First(&team, teamID).Error; err != nil {
			return referenceOr(err, "team")
		}
		var player model.Player
		if err := tx.First(&player, playerID).Error; err != nil {
			return referenceOr(err, "player")
		}
		var count int64
		if err := tx.Model(&model.RosterEntry{}).
			Where("team_id = ? AND player_id = ?", teamID, playerID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("checking roster: %w", err)
		}
		if count > 0 {
			return nil // already rostered
		}
		if err := tx.Create(&model.RosterEntry{TeamID: teamID, PlayerID: playerID}).Error; err != nil {
			return fmt.Errorf("adding roster row: %w", err)
		}
		return nil
	})
}

func (s *gormStore) RemoveFromRoster(ctx context.Context, teamID, playerID uint) error {
	if err := s.db.WithContext(ctx).
		Where("team_id = ? AND player_id = ?", teamID, playerID).
		Delete(&model.RosterEntry{}).Error; err != nil {
		return fmt.Errorf("removing roster row: %w", err)
	}
	return nil
}

func (s *gormStore) ListRoster(ctx context.Context, teamID uint) ([]model.Player, error) {
	var players []model.Player
	err := s.db.WithContext(ctx).
		Joins("JOIN roster_entries ON roster_entries.player_id = players.id").
		Where("roster_entries.team_id = ?", teamID).
		Order("players.name, players.id").
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("listing roster: %w", err)
	}
	return players, nil
}

// ---- videos ----

func (s *gormStore) AddVideo(ctx context.Context, v *model.Video) error {
	if v.URL == "" {
		return fmt.Errorf("%w: video url required", ErrValidation)
	}
	if v.Kind == "" {
		v.Kind = "youtube"
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Match
		if err := tx.First(&m, v.MatchID).Error; err != nil {
			return referenceOr(err, "match")
		}
		if err := tx.Create(v).Error; err != nil {
			return fmt.Errorf("creating video: %w", err)
		}
		return nil
	})
}

func (s *gormStore) ListVideos(ctx context.Context, matchID uint) ([]model.Video, error) {
	var videos []model.Video
	if err := s.db.WithContext(ctx).Where("match_id = ?", matchID).Order("id").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("listing videos: %w", err)
	}
	return videos, nil
}

func (s *gormStore) DeleteVideo(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Video
		if err := tx.First(&v, id).Error; err != nil {
			return translate(err, "video")
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Moment{}).Error; err != nil {
			return fmt.Errorf("deleting video moments: %w", err)
		}
		if err := tx.Delete(&model.Video{}, id).Error; err != nil {
			return fmt.Errorf("deleting video: %w", err)
		}
		return nil
	})
}

// translate maps gorm lookup errors to store sentinels.
func translate(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, entity)
	}
	return fmt.Errorf("loading %s: %w", entity, err)
}

// referenceOr maps a missing foreign-key target to ErrReference.
func referenceOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrReference, entity)
	}
	return fmt.Errorf("loading %s: %w", entity, err)
}

// Ledger operations live in events.go; moments in moments.go.
var _ Store = (*gormStore)(nil)
