package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gainline/gainline/internal/domain/model"
)

func (s *gormStore) AddMoment(ctx context.Context, m *model.Moment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var match model.Match
		if err := tx.First(&match, m.MatchID).Error; err != nil {
			return referenceOr(err, "match")
		}
		var video model.Video
		if err := tx.First(&video, m.VideoID).Error; err != nil {
			return referenceOr(err, "video")
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("creating moment: %w", err)
		}
		return nil
	})
}

func (s *gormStore) UpdateMomentNote(ctx context.Context, id uint, note string) error {
	res := s.db.WithContext(ctx).Model(&model.Moment{}).Where("id = ?", id).Update("note", note)
	if res.Error != nil {
		return fmt.Errorf("updating moment note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: moment %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) DeleteMoment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Moment{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting moment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: moment %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) ListMoments(ctx context.Context, matchID, videoID uint) ([]model.Moment, error) {
	var moments []model.Moment
	err := s.db.WithContext(ctx).
		Where("match_id = ? AND video_id = ?", matchID, videoID).
		Order("video_ts, id").
		Find(&moments).Error
	if err != nil {
		return nil, fmt.Errorf("listing moments: %w", err)
	}
	return moments, nil
}
