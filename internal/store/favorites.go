package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"
)

// AddFavorite records that userID favorited promptID. Adding twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, promptID string) error {
	fav := Favorite{UserID: userID, PromptID: promptID}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes the relation if present.
func (s *Store) RemoveFavorite(ctx context.Context, userID, promptID string) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND prompt_id = ?", userID, promptID).
		Delete(&Favorite{}).Error
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// FavoriteIDs returns the prompt IDs favorited by userID in the order they were added.
func (s *Store) FavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").Order("prompt_id").
		Pluck("prompt_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	return ids, nil
}

// FavoritePrompts returns the populated prompts favorited by userID in the
// order they were added.
func (s *Store) FavoritePrompts(ctx context.Context, userID string) ([]Prompt, error) {
	prompts := []Prompt{}
	err := s.db.WithContext(ctx).Model(&Prompt{}).
		Select("prompts.*").
		Joins("JOIN favorites ON favorites.prompt_id = prompts.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at ASC").Order("prompts.id").
		Find(&prompts).Error
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return prompts, nil
}
