// Package catalog implements the prompt moderation workflow, favorites,
// counters and the stats snapshot on top of the store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/store"
)

// ListQuery narrows List.
type ListQuery struct {
	Status store.PromptStatus
	Search string
	// UserID, when set, marks prompts that user has favorited.
	UserID string
}

// Service is the prompt catalog.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates a catalog over s.
func NewService(s *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, logger: logger}
}

// Recompute rebuilds the stats snapshot using tx. Every mutation that moves
// a count calls it inside its own transaction.
func (s *Service) Recompute(ctx context.Context, tx *store.Store) error {
	snap, err := tx.ComputeStats(ctx)
	if err != nil {
		return err
	}
	return tx.SaveStats(ctx, snap)
}

// Submit stores a new prompt from caller. Submissions always start pending.
func (s *Service) Submit(ctx context.Context, caller *store.User, in PromptInput) (*store.Prompt, error) {
	if caller == nil {
		return nil, auth.ErrUnauthorized
	}
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}

	submitter := caller.ID
	p := &store.Prompt{
		Label:       in.Label,
		Description: in.Description,
		Tips:        in.Tips,
		Drills:      in.Drills,
		Links:       in.Links,
		SubmittedBy: &submitter,
		Status:      store.StatusPending,
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreatePrompt(ctx, p); err != nil {
			return err
		}
		return s.Recompute(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prompt submitted", "prompt_id", p.ID, "label", p.Label, "user_id", caller.ID)
	return p, nil
}

// List returns prompts matching q, newest first. Only admins may list a
// status other than approved.
func (s *Service) List(ctx context.Context, caller *store.User, q ListQuery) ([]store.Prompt, error) {
	status := q.Status
	if status == "" {
		status = store.StatusApproved
	}
	if !status.Valid() {
		return nil, invalid("unknown status %q", status)
	}
	if status != store.StatusApproved {
		if caller == nil {
			return nil, auth.ErrUnauthorized
		}
		if !caller.IsAdmin {
			return nil, fmt.Errorf("%w: only admins can list %s prompts", auth.ErrForbidden, status)
		}
	}

	prompts, err := s.store.ListPrompts(ctx, store.ListFilter{Status: status, Search: q.Search})
	if err != nil {
		return nil, err
	}
	if q.UserID == "" {
		return prompts, nil
	}

	ids, err := s.store.FavoriteIDs(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	favorited := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		favorited[id] = struct{}{}
	}
	for i := range prompts {
		_, prompts[i].IsFavorited = favorited[prompts[i].ID]
	}
	return prompts, nil
}

// AllPrompts returns every prompt regardless of status. Admin only.
func (s *Service) AllPrompts(ctx context.Context, caller *store.User) ([]store.Prompt, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.ListPrompts(ctx, store.ListFilter{})
}

// Update applies a moderation update. Admin only.
func (s *Service) Update(ctx context.Context, caller *store.User, id string, u PromptUpdate) (*store.Prompt, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	fields, err := u.Fields()
	if err != nil {
		return nil, err
	}

	var updated *store.Prompt
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		p, err := tx.UpdatePrompt(ctx, id, fields)
		if err != nil {
			return err
		}
		updated = p
		return s.Recompute(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("prompt updated", "prompt_id", id, "status", updated.Status, "user_id", caller.ID)
	return updated, nil
}

// Delete removes a prompt permanently. Admin only.
func (s *Service) Delete(ctx context.Context, caller *store.User, id string) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.DeletePrompt(ctx, id); err != nil {
			return err
		}
		return s.Recompute(ctx, tx)
	})
	if err != nil {
		return err
	}
	s.logger.Info("prompt deleted", "prompt_id", id, "user_id", caller.ID)
	return nil
}

// Like adds one like.
func (s *Service) Like(ctx context.Context, id string) (*store.Prompt, error) {
	return s.bump(ctx, id, store.CounterLikes)
}

// View adds one view.
func (s *Service) View(ctx context.Context, id string) (*store.Prompt, error) {
	return s.bump(ctx, id, store.CounterViews)
}

func (s *Service) bump(ctx context.Context, id string, c store.Counter) (*store.Prompt, error) {
	var p *store.Prompt
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		if p, err = tx.IncrementCounter(ctx, id, c); err != nil {
			return err
		}
		return s.Recompute(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddFavorite adds promptID to userID's favorites and returns the updated
// list of favorite ids. Callers may only change their own favorites.
func (s *Service) AddFavorite(ctx context.Context, caller *store.User, userID, promptID string) ([]string, error) {
	if err := requireOwner(caller, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPrompt(ctx, promptID); err != nil {
		return nil, err
	}
	if err := s.store.AddFavorite(ctx, userID, promptID); err != nil {
		return nil, err
	}
	return s.store.FavoriteIDs(ctx, userID)
}

// RemoveFavorite drops promptID from userID's favorites. Removing a prompt
// that was never favorited is not an error.
func (s *Service) RemoveFavorite(ctx context.Context, caller *store.User, userID, promptID string) ([]string, error) {
	if err := requireOwner(caller, userID); err != nil {
		return nil, err
	}
	if err := s.store.RemoveFavorite(ctx, userID, promptID); err != nil {
		return nil, err
	}
	return s.store.FavoriteIDs(ctx, userID)
}

// Favorites returns userID's favorite prompts in the order they were added.
func (s *Service) Favorites(ctx context.Context, caller *store.User, userID string) ([]store.Prompt, error) {
	if err := requireOwner(caller, userID); err != nil {
		return nil, err
	}
	prompts, err := s.store.FavoritePrompts(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range prompts {
		prompts[i].IsFavorited = true
	}
	return prompts, nil
}

// Stats returns the snapshot, computing it the first time it is asked for.
func (s *Service) Stats(ctx context.Context) (*store.StatSnapshot, error) {
	snap, err := s.store.GetStats(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := s.Recompute(ctx, tx); err != nil {
			return err
		}
		snap, err = tx.GetStats(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("stats snapshot initialized")
	return snap, nil
}

// Users lists every account. Admin only.
func (s *Service) Users(ctx context.Context, caller *store.User) ([]store.User, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx)
}

func requireAdmin(caller *store.User) error {
	if caller == nil {
		return auth.ErrUnauthorized
	}
	if !caller.IsAdmin {
		return fmt.Errorf("%w: admin access required", auth.ErrForbidden)
	}
	return nil
}

func requireOwner(caller *store.User, userID string) error {
	if caller == nil {
		return auth.ErrUnauthorized
	}
	if caller.ID != userID {
		return fmt.Errorf("%w: favorites belong to another user", auth.ErrForbidden)
	}
	return nil
}
