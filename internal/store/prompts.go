package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Counter names a prompt counter column.
type Counter string

const (
	CounterLikes Counter = "likes"
	CounterViews Counter = "views"
)

// ListFilter narrows ListPrompts. Zero values match everything.
type ListFilter struct {
	Status PromptStatus
	// Search is a case-insensitive substring matched against label or description.
	Search string
}

// CreatePrompt inserts p, assigning an ID when empty.
func (s *Store) CreatePrompt(ctx context.Context, p *Prompt) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create prompt: %w", translate(err))
	}
	return nil
}

// GetPrompt loads a prompt by ID.
func (s *Store) GetPrompt(ctx context.Context, id string) (*Prompt, error) {
	var p Prompt
	if err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// PromptLabelExists reports whether any prompt carries label.
func (s *Store) PromptLabelExists(ctx context.Context, label string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Prompt{}).Where("label = ?", label).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check label: %w", err)
	}
	return n > 0, nil
}

// ListPrompts returns prompts matching f, newest first.
func (s *Store) ListPrompts(ctx context.Context, f ListFilter) ([]Prompt, error) {
	q := s.db.WithContext(ctx).Model(&Prompt{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	prompts := []Prompt{}
	if err := q.Order("created_at DESC").Order("id").Find(&prompts).Error; err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	// SQLite's LOWER only folds ASCII, so the text match runs here.
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return prompts, nil
	}
	matched := prompts[:0]
	for _, p := range prompts {
		if strings.Contains(strings.ToLower(p.Label), term) || strings.Contains(strings.ToLower(p.Description), term) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// UpdatePrompt applies column updates to the prompt and returns the result.
// Keys are column names (label, description, tips, drills, links, status).
func (s *Store) UpdatePrompt(ctx context.Context, id string, fields map[string]any) (*Prompt, error) {
	if _, err := s.GetPrompt(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := s.db.WithContext(ctx).Model(&Prompt{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, fmt.Errorf("update prompt: %w", translate(err))
		}
	}
	return s.GetPrompt(ctx, id)
}

// DeletePrompt removes a prompt and every favorite that references it.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("prompt_id = ?", id).Delete(&Favorite{}).Error; err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	res := db.Where("id = ?", id).Delete(&Prompt{})
	if res.Error != nil {
		return fmt.Errorf("delete prompt: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementCounter adds one to the named counter in a single statement.
func (s *Store) IncrementCounter(ctx context.Context, id string, c Counter) (*Prompt, error) {
	if c != CounterLikes && c != CounterViews {
		return nil, fmt.Errorf("unknown counter %q", c)
	}
	col := string(c)
	res := s.db.WithContext(ctx).Model(&Prompt{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("increment %s: %w", col, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetPrompt(ctx, id)
}
