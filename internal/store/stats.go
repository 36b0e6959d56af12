package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm/clause"
)

// ComputeStats recounts the snapshot from the prompts and users tables.
func (s *Store) ComputeStats(ctx context.Context) (*StatSnapshot, error) {
	var agg struct {
		TotalPrompts int64
		TotalViews   int64
		TotalLikes   int64
	}
	err := s.db.WithContext(ctx).Model(&Prompt{}).
		Select("COUNT(*) AS total_prompts, COALESCE(SUM(views), 0) AS total_views, COALESCE(SUM(likes), 0) AS total_likes").
		Where("status = ?", StatusApproved).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate prompts: %w", err)
	}

	users, err := s.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &StatSnapshot{
		ID:           StatsSnapshotID,
		TotalPrompts: agg.TotalPrompts,
		TotalUsers:   users,
		TotalViews:   agg.TotalViews,
		TotalLikes:   agg.TotalLikes,
		UpdatedAt:    time.Now().UTC(),
	}, nil
}

// SaveStats upserts the singleton snapshot.
func (s *Store) SaveStats(ctx context.Context, snap *StatSnapshot) error {
	snap.ID = StatsSnapshotID
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_prompts", "total_users", "total_views", "total_likes", "updated_at"}),
		}).
		Create(snap).Error
	if err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// GetStats loads the snapshot. Returns ErrNotFound if it was never computed.
func (s *Store) GetStats(ctx context.Context) (*StatSnapshot, error) {
	var snap StatSnapshot
	if err := s.db.WithContext(ctx).First(&snap, "id = ?", StatsSnapshotID).Error; err != nil {
		return nil, translate(err)
	}
	return &snap, nil
}
