package advice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/freestyle/internal/providers"
	"github.com/jackzampolin/freestyle/internal/testutil"
)

func newAdvisor(t *testing.T) (*Advisor, *providers.MockClient) {
	t.Helper()
	mock := providers.NewMockClient()
	registry := providers.NewRegistry()
	registry.SetLogger(testutil.DiscardLogger())
	registry.RegisterLLM(providers.MockClientName, mock)
	return NewAdvisor(registry, providers.MockClientName, testutil.DiscardLogger()), mock
}

func TestAdvice(t *testing.T) {
	a, mock := newAdvisor(t)
	mock.ResponseText = "Keep your knees soft."

	got, err := a.Advice(context.Background(), " Bounce ")
	require.NoError(t, err)
	assert.Equal(t, "Keep your knees soft.", got)

	req := mock.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, 150, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, adviceSystem, req.Messages[0].Content)
	assert.Equal(t, `Give me specific advice for practicing "Bounce" in freestyle dance. Keep it under 100 words.`, req.Messages[1].Content)
}

func TestDrills(t *testing.T) {
	a, mock := newAdvisor(t)
	mock.ResponseText = "1. Basic bounce"

	got, err := a.Drills(context.Background(), "Waves")
	require.NoError(t, err)
	assert.Equal(t, "1. Basic bounce", got)

	req := mock.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, 300, req.MaxTokens)
	assert.True(t, strings.HasPrefix(req.Messages[1].Content, `Create 1 practice drills for "Waves" in freestyle dance.`))
	assert.Contains(t, req.Messages[0].Content, "progressive practice drills")
}

func TestAdvisorErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty prompt", func(t *testing.T) {
		a, mock := newAdvisor(t)
		_, err := a.Advice(ctx, "   ")
		assert.ErrorIs(t, err, ErrEmptyPrompt)
		assert.Zero(t, mock.RequestCount(), "no upstream call for an empty prompt")
	})

	t.Run("upstream failure passes through", func(t *testing.T) {
		a, mock := newAdvisor(t)
		mock.ShouldFail = true
		mock.FailMessage = "quota exceeded"
		_, err := a.Drills(ctx, "Levels")
		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, "quota exceeded", err.Error())
	})

	t.Run("no client registered", func(t *testing.T) {
		a := NewAdvisor(providers.NewRegistry(), "", testutil.DiscardLogger())
		_, err := a.Advice(ctx, "Levels")
		assert.True(t, errors.Is(err, ErrNotConfigured))
	})
}
