package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gainline/gainline/internal/domain/aggregate"
	"github.com/gainline/gainline/internal/domain/model"
)

// defaultRecentLimit bounds ListRecent when callers pass no limit.
const defaultRecentLimit = 20

func (s *gormStore) LogEvent(ctx context.Context, matchID, playerID, metricID uint, value float64) (model.Event, error) {
	if value == 0 {
		value = 1
	}
	ev := model.Event{
		MatchID:  matchID,
		PlayerID: playerID,
		MetricID: metricID,
		Value:    value,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.Match
		if err := tx.First(&m, matchID).Error; err != nil {
			return referenceOr(err, "match")
		}
		var p model.Player
		if err := tx.First(&p, playerID).Error; err != nil {
			return referenceOr(err, "player")
		}
		var metric model.Metric
		if err := tx.First(&metric, metricID).Error; err != nil {
			return referenceOr(err, "metric")
		}
		if err := tx.Create(&ev).Error; err != nil {
			return fmt.Errorf("appending event: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

func (s *gormStore) ListRecent(ctx context.Context, matchID uint, limit int) ([]model.RecentEvent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var rows []model.RecentEvent
	err := s.db.WithContext(ctx).
		Table("events").
		Select("events.id, players.name AS player_name, metrics.label AS metric_label, events.value, events.ts").
		Joins("JOIN players ON players.id = events.player_id").
		Joins("JOIN metrics ON metrics.id = events.metric_id").
		Where("events.match_id = ?", matchID).
		Order("events.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing recent events: %w", err)
	}
	return rows, nil
}

func (s *gormStore) DeleteEvent(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Event{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: event %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) CountEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return count, nil
}

func (s *gormStore) Snapshot(ctx context.Context) (aggregate.Snapshot, error) {
	var snap aggregate.Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id").Find(&snap.Players).Error; err != nil {
			return fmt.Errorf("loading players: %w", err)
		}
		if err := tx.Order("id").Find(&snap.Metrics).Error; err != nil {
			return fmt.Errorf("loading metrics: %w", err)
		}
		if err := tx.Order("id").Find(&snap.Events).Error; err != nil {
			return fmt.Errorf("loading events: %w", err)
		}
		return nil
	})
	if err != nil {
		return aggregate.Snapshot{}, err
	}
	return snap, nil
}
