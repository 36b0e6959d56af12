package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_SendsSessionToken(t *testing.T) {
	var gotAuth, gotMethod, gotContentType string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	ctx := WithSession(context.Background(), &Session{Token: "tok-123"}, "")
	client := ClientFor(ctx, server.URL)

	var resp map[string]string
	if err := client.Put(ctx, "/api/prompts/p1", map[string]string{"status": "approved"}, &resp); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody["status"] != "approved" {
		t.Errorf("body = %v", gotBody)
	}
	if resp["status"] != "ok" {
		t.Errorf("decoded response = %v", resp)
	}

	if err := NewClient(server.URL).Get(ctx, "/health", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("client without session sent Authorization %q", gotAuth)
	}
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json error", http.StatusForbidden, `{"error":"admin access required"}`, "server error (403): admin access required"},
		{"plain body", http.StatusBadGateway, "upstream down", "server error (502): upstream down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).WithToken("t").Delete(context.Background(), "/x", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
			var se *StatusError
			if !errors.As(err, &se) || se.StatusCode != tt.status {
				t.Errorf("expected *StatusError with status %d, got %#v", tt.status, err)
			}
		})
	}
}
