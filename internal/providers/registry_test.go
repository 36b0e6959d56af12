package providers

import (
	"context"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if r.HasLLM("mock") {
		t.Fatal("empty registry should have no clients")
	}
	if _, err := r.GetLLM("mock"); err == nil {
		t.Fatal("expected error for missing client")
	}

	mock := NewMockClient()
	r.RegisterLLM("mock", mock)

	got, err := r.GetLLM("mock")
	if err != nil {
		t.Fatalf("GetLLM() error = %v", err)
	}
	if got != mock {
		t.Fatal("GetLLM() returned a different client")
	}
	if names := r.ListLLM(); len(names) != 1 || names[0] != "mock" {
		t.Fatalf("ListLLM() = %v", names)
	}
}

func TestRegistry_Reload(t *testing.T) {
	r := NewRegistryFromConfig(RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"openai": {Type: "openai", Model: "gpt-4o", APIKey: "key-1"},
			"empty":  {Type: "openai", Model: "gpt-4o"},
		},
	})

	if !r.HasLLM("openai") {
		t.Fatal("expected openai client after initial load")
	}
	if r.HasLLM("empty") {
		t.Fatal("client without API key should not be registered")
	}
	first, _ := r.GetLLM("openai")

	t.Run("unchanged config keeps client", func(t *testing.T) {
		r.Reload(RegistryConfig{LLMProviders: map[string]LLMProviderConfig{
			"openai": {Type: "openai", Model: "gpt-4o", APIKey: "key-1"},
		}})
		got, _ := r.GetLLM("openai")
		if got != first {
			t.Fatal("expected the same client when config is unchanged")
		}
	})

	t.Run("changed config rebuilds client", func(t *testing.T) {
		r.Reload(RegistryConfig{LLMProviders: map[string]LLMProviderConfig{
			"openai": {Type: "openai", Model: "gpt-4o-mini", APIKey: "key-1"},
		}})
		got, err := r.GetLLM("openai")
		if err != nil {
			t.Fatalf("GetLLM() error = %v", err)
		}
		if got == first {
			t.Fatal("expected a new client after model change")
		}
		if oc, ok := got.(*OpenAIClient); !ok || oc.Model() != "gpt-4o-mini" {
			t.Fatalf("unexpected client after reload: %#v", got)
		}
	})

	t.Run("removed key unregisters", func(t *testing.T) {
		r.Reload(RegistryConfig{})
		if r.HasLLM("openai") {
			t.Fatal("expected openai client to be removed")
		}
	})

	t.Run("unknown type skipped", func(t *testing.T) {
		r.Reload(RegistryConfig{LLMProviders: map[string]LLMProviderConfig{
			"other": {Type: "carrier-pigeon", APIKey: "k"},
		}})
		if r.HasLLM("other") {
			t.Fatal("unknown provider type should not register")
		}
	})
}

func TestMockClient(t *testing.T) {
	ctx := context.Background()
	mock := NewMockClient()
	mock.ResponseText = "practice slowly"

	result, err := mock.Chat(ctx, &ChatRequest{Model: "m", Messages: []Message{UserMessage("hello there")}})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Content != "practice slowly" {
		t.Errorf("unexpected content: %q", result.Content)
	}
	if mock.RequestCount() != 1 {
		t.Errorf("expected 1 request, got %d", mock.RequestCount())
	}
	if last := mock.LastRequest(); last == nil || last.Model != "m" {
		t.Errorf("LastRequest() = %+v", last)
	}

	mock.ShouldFail = true
	if _, err := mock.Chat(ctx, &ChatRequest{Messages: []Message{UserMessage("x")}}); err == nil {
		t.Error("expected failure")
	}

	mock.Reset()
	if mock.RequestCount() != 0 || mock.LastRequest() != nil {
		t.Error("Reset() should clear state")
	}
}
