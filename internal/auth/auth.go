// Package auth handles registration, login and bearer token verification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jackzampolin/freestyle/internal/store"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

var (
	// ErrUnauthorized means the caller is not authenticated.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the caller is authenticated but not entitled.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidLogin is returned for both unknown emails and wrong passwords.
	ErrInvalidLogin = errors.New("invalid email or password")
	// ErrInvalidRegistration wraps every rejected registration.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Grant is what a successful register or login hands back to the client.
type Grant struct {
	Token string      `json:"token"`
	User  *store.User `json:"user"`
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest carries the login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Config configures a Service.
type Config struct {
	Store  *store.Store
	Tokens *TokenIssuer
	Logger *slog.Logger
	// OnRegister runs inside the registration transaction.
	OnRegister func(ctx context.Context, tx *store.Store) error
	// HashCost overrides bcrypt.DefaultCost. Tests lower it.
	HashCost int
}

// Service implements registration, login and token authentication.
type Service struct {
	store      *store.Store
	tokens     *TokenIssuer
	logger     *slog.Logger
	onRegister func(ctx context.Context, tx *store.Store) error
	hashCost   int
}

// NewService creates an auth service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("auth: store is required")
	}
	if cfg.Tokens == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &Service{
		store:      cfg.Store,
		tokens:     cfg.Tokens,
		logger:     cfg.Logger,
		onRegister: cfg.OnRegister,
		hashCost:   cfg.HashCost,
	}, nil
}

// Register creates a user and signs a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Grant, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidRegistration)
	}
	if len(req.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRegistration, MinPasswordLength)
	}

	taken, err := s.store.UserTaken(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: username or email already taken", ErrInvalidRegistration)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &store.User{Username: username, Email: email, PasswordHash: string(hash)}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		if s.onRegister != nil {
			return s.onRegister(ctx, tx)
		}
		return nil
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, fmt.Errorf("%w: username or email already taken", ErrInvalidRegistration)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return s.grant(user)
}

// Login verifies credentials and signs a token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Grant, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Debug("login for unknown email")
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debug("login with bad password", "user_id", user.ID)
		return nil, ErrInvalidLogin
	}
	return s.grant(user)
}

// Authenticate resolves a bearer token to its user. The user must still
// exist.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) grant(user *store.User) (*Grant, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Grant{Token: token, User: user}, nil
}
