package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/jackzampolin/freestyle/internal/store"
)

func validInput() PromptInput {
	return PromptInput{
		Label:       "  Bounce ",
		Description: "Elastic movement",
		Tips:        []string{"knees soft", "  ", ""},
		Drills:      []store.Drill{{Icon: "Target", Text: "bounce for 16 counts"}},
		Links:       []store.Link{{Title: "Drills", URL: "https://example.com/bounce"}},
	}
}

func TestNormalize(t *testing.T) {
	in, err := validInput().Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Bounce", in.Label)
	assert.Equal(t, []string{"knees soft"}, in.Tips)
	assert.Equal(t, store.LinkWebsite, in.Links[0].Type, "untyped link defaults to website")
	assert.Empty(t, in.Links[0].VideoID)
}

func TestNormalize_PromotesVideoLinks(t *testing.T) {
	in := validInput()
	in.Links = []store.Link{
		{Title: "untyped", URL: "https://youtu.be/7Caiei_F48s"},
		{Title: "website", URL: "https://www.youtube.com/watch?v=lRbEjAar9yQ", Type: store.LinkWebsite},
		{Title: "video", URL: "https://www.youtube.com/shorts/11fj6wGv_7o", Type: store.LinkVideo, VideoID: "ignored"},
	}

	out, err := in.Normalize()
	require.NoError(t, err)
	want := []store.Link{
		{Title: "untyped", URL: "https://youtu.be/7Caiei_F48s", Type: store.LinkVideo, VideoID: "7Caiei_F48s"},
		{Title: "website", URL: "https://www.youtube.com/watch?v=lRbEjAar9yQ", Type: store.LinkVideo, VideoID: "lRbEjAar9yQ"},
		{Title: "video", URL: "https://www.youtube.com/shorts/11fj6wGv_7o", Type: store.LinkVideo, VideoID: "11fj6wGv_7o"},
	}
	assert.Equal(t, want, out.Links)
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PromptInput)
		wantMsg string
	}{
		{"missing label", func(in *PromptInput) { in.Label = " " }, "label is required"},
		{"missing description", func(in *PromptInput) { in.Description = "" }, "description is required"},
		{"drill without text", func(in *PromptInput) { in.Drills[0].Text = "" }, "drill 1 requires an icon and text"},
		{"drill with unknown icon", func(in *PromptInput) { in.Drills[0].Icon = "Skull" }, `drill 1 has unknown icon "Skull"`},
		{"link without url", func(in *PromptInput) { in.Links[0].URL = "" }, "link 1 requires a title and url"},
		{"link without title", func(in *PromptInput) { in.Links[0].Title = "" }, "link 1 requires a title and url"},
		{"relative url", func(in *PromptInput) { in.Links[0].URL = "/bounce" }, "link 1 has an invalid url: /bounce"},
		{"non-http url", func(in *PromptInput) { in.Links[0].URL = "ftp://example.com/x" }, "link 1 has an invalid url"},
		{"unknown link type", func(in *PromptInput) { in.Links[0].Type = "youtube" }, `link 1 has unknown type "youtube"`},
		{
			"video type without video url",
			func(in *PromptInput) { in.Links[0].Type = store.LinkVideo },
			"could not extract a video id from https://example.com/bounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := in.Normalize()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation), "expected a validation error, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestPromptUpdate_Fields(t *testing.T) {
	ptr := func(s string) *string { return &s }
	approved := store.StatusApproved
	bogus := store.PromptStatus("archived")
	links := []store.Link{{Title: "clip", URL: "https://youtu.be/7Caiei_F48s"}}

	t.Run("status only", func(t *testing.T) {
		fields, err := PromptUpdate{Status: &approved}.Fields()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"status": store.StatusApproved}, fields)
	})

	t.Run("content is normalized", func(t *testing.T) {
		fields, err := PromptUpdate{Label: ptr(" Waves "), Links: &links}.Fields()
		require.NoError(t, err)
		assert.Equal(t, "Waves", fields["label"])
		got := fields["links"].(datatypes.JSONSlice[store.Link])
		assert.Equal(t, "7Caiei_F48s", got[0].VideoID)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := PromptUpdate{Status: &bogus}.Fields()
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank label", func(t *testing.T) {
		_, err := PromptUpdate{Label: ptr("")}.Fields()
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("empty update", func(t *testing.T) {
		_, err := PromptUpdate{}.Fields()
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDecodePrompt(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		body := `{"label":"Bounce","description":"d","tips":["a"],"drills":[{"icon":"Zap","text":"go"}],"links":null}`
		in, err := DecodePrompt(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, "Bounce", in.Label)
		assert.Equal(t, []store.Drill{{Icon: "Zap", Text: "go"}}, in.Drills)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := DecodePrompt(strings.NewReader(`{"label":`))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("wrong field type", func(t *testing.T) {
		_, err := DecodePrompt(strings.NewReader(`{"label":"x","description":"d","tips":"not a list"}`))
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "/tips")
	})

	t.Run("wrong nested type", func(t *testing.T) {
		_, err := DecodePrompt(strings.NewReader(`{"label":"x","description":"d","links":[{"title":"t","url":5}]}`))
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "/links/0/url")
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := DecodePrompt(strings.NewReader(`[1,2]`))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDecodeUpdate(t *testing.T) {
	u, err := DecodeUpdate(strings.NewReader(`{"status":"approved"}`))
	require.NoError(t, err)
	require.NotNil(t, u.Status)
	assert.Equal(t, store.StatusApproved, *u.Status)
	assert.Nil(t, u.Label)

	_, err = DecodeUpdate(strings.NewReader(`{"status":1}`))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStarterPrompts(t *testing.T) {
	prompts, err := StarterPrompts()
	require.NoError(t, err)
	require.Len(t, prompts, 8)
	for _, p := range prompts {
		out, err := p.Normalize()
		require.NoError(t, err, "starter prompt %q", p.Label)
		for _, l := range out.Links {
			assert.Equal(t, store.LinkVideo, l.Type, "starter prompt %q", p.Label)
		}
	}
}
