package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SessionUser is the identity saved alongside the token.
type SessionUser struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email" yaml:"email"`
	IsAdmin  bool   `json:"isAdmin" yaml:"is_admin"`
}

// Session is the CLI's signed-in state, persisted between commands.
type Session struct {
	Server string      `yaml:"server,omitempty"`
	Token  string      `yaml:"token"`
	User   SessionUser `yaml:"user"`
}

// SignedIn reports whether the session carries a token.
func (s *Session) SignedIn() bool {
	return s != nil && s.Token != ""
}

// LoadSession reads the session file. A missing file yields an empty
// session.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return &s, nil
}

// SaveSession writes the session file, readable only by the owner.
func SaveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// ClearSession removes the session file. Clearing a missing file is a no-op.
func ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

type sessionKey struct{}
type sessionPathKey struct{}

// WithSession attaches the loaded session and the file it came from to ctx.
func WithSession(ctx context.Context, s *Session, path string) context.Context {
	ctx = context.WithValue(ctx, sessionKey{}, s)
	return context.WithValue(ctx, sessionPathKey{}, path)
}

// SessionFrom returns the session attached to ctx, or nil.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// SessionPathFrom returns the session file path attached to ctx.
func SessionPathFrom(ctx context.Context) string {
	p, _ := ctx.Value(sessionPathKey{}).(string)
	return p
}
