// Package advice asks a language model for practice advice and drills for a
// prompt label.
package advice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/freestyle/internal/providers"
)

const (
	adviceSystem = "You are a professional dance instructor specializing in freestyle dance."
	drillsSystem = "You are a professional dance instructor specializing in freestyle dance. Create structured, progressive practice drills."

	adviceMaxTokens = 150
	drillsMaxTokens = 300
)

var (
	// ErrEmptyPrompt is returned when no prompt label is supplied.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrNotConfigured is returned when no LLM client is registered.
	ErrNotConfigured = errors.New("advice service is not configured: set llm.api_key")
)

// UpstreamError carries a completion failure. Its message is the
// provider's and is safe to show to the caller.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// Advisor builds the two fixed requests and returns the model's text.
type Advisor struct {
	registry *providers.Registry
	provider string
	logger   *slog.Logger
}

// NewAdvisor creates an advisor that uses the named client from registry.
func NewAdvisor(registry *providers.Registry, provider string, logger *slog.Logger) *Advisor {
	if provider == "" {
		provider = providers.OpenAIName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{registry: registry, provider: provider, logger: logger}
}

// Advice returns short practice advice for prompt.
func (a *Advisor) Advice(ctx context.Context, prompt string) (string, error) {
	return a.ask(ctx, prompt, adviceSystem, adviceMaxTokens, func(p string) string {
		return fmt.Sprintf("Give me specific advice for practicing %q in freestyle dance. Keep it under 100 words.", p)
	})
}

// Drills returns a structured practice drill for prompt.
func (a *Advisor) Drills(ctx context.Context, prompt string) (string, error) {
	return a.ask(ctx, prompt, drillsSystem, drillsMaxTokens, func(p string) string {
		return fmt.Sprintf("Create 1 practice drills for %q in freestyle dance. "+
			"Format each drill with: - Drill name - Duration/repetitions - Step-by-step instructions "+
			"Present the drills in a clear, easy-to-follow list.", p)
	})
}

func (a *Advisor) ask(ctx context.Context, prompt, system string, maxTokens int, user func(string) string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if a.registry == nil {
		return "", ErrNotConfigured
	}
	client, err := a.registry.GetLLM(a.provider)
	if err != nil {
		return "", ErrNotConfigured
	}

	result, err := client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			providers.SystemMessage(system),
			providers.UserMessage(user(prompt)),
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		a.logger.Error("advice request failed", "prompt", prompt, "error", err)
		return "", &UpstreamError{Err: err}
	}

	a.logger.Debug("advice request completed",
		"prompt", prompt,
		"model", result.ModelUsed,
		"tokens", result.TotalTokens,
		"duration", result.ExecutionTime)
	return result.Content, nil
}
