package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/freestyle/internal/store"
)

//go:embed seed.yaml
var seedData []byte

// SeedResult reports what Seed did.
type SeedResult struct {
	Added   []string `json:"added" yaml:"added"`
	Skipped []string `json:"skipped" yaml:"skipped"`
}

// StarterPrompts returns the built-in prompt set.
func StarterPrompts() ([]PromptInput, error) {
	return ParsePrompts(bytes.NewReader(seedData))
}

// ParsePrompts reads a YAML document with a top-level prompts list.
func ParsePrompts(r io.Reader) ([]PromptInput, error) {
	var doc struct {
		Prompts []PromptInput `yaml:"prompts"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return doc.Prompts, nil
}

// Seed inserts prompts as approved, skipping any whose label already
// exists. Everything happens in one transaction.
func (s *Service) Seed(ctx context.Context, prompts []PromptInput) (*SeedResult, error) {
	res := &SeedResult{Added: []string{}, Skipped: []string{}}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		for _, raw := range prompts {
			in, err := raw.Normalize()
			if err != nil {
				return fmt.Errorf("seed %q: %w", raw.Label, err)
			}
			exists, err := tx.PromptLabelExists(ctx, in.Label)
			if err != nil {
				return err
			}
			if exists {
				res.Skipped = append(res.Skipped, in.Label)
				continue
			}
			p := &store.Prompt{
				Label:       in.Label,
				Description: in.Description,
				Tips:        in.Tips,
				Drills:      in.Drills,
				Links:       in.Links,
				Status:      store.StatusApproved,
			}
			if err := tx.CreatePrompt(ctx, p); err != nil {
				return err
			}
			res.Added = append(res.Added, in.Label)
		}
		return s.Recompute(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("seeded prompts", "added", len(res.Added), "skipped", len(res.Skipped))
	return res, nil
}
