package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/adventurelog/web/internal/config"
	"github.com/adventurelog/web/internal/models"
)

// ErrNoSession means the request carries no usable session
var ErrNoSession = errors.New("no session")

// SessionData represents the authenticated session context for a request
type SessionData struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	IsStaff    bool   `json:"is_staff"`
	AuthMethod string `json:"auth_method"` // "backend", "jwt"
}

// Resolver turns the auth cookie value into a session
type Resolver interface {
	Resolve(ctx context.Context, token string) (*SessionData, error)
}

// UserFetcher looks up the user owning a backend token
type UserFetcher interface {
	CurrentUser(ctx context.Context, authToken string) (*models.User, error)
}

// NewResolver picks the resolver matching the configured session mode
func NewResolver(cfg config.SessionConfig, users UserFetcher) (Resolver, error) {
	switch cfg.Mode {
	case config.SessionModeBackend:
		return NewBackendResolver(users), nil
	case config.SessionModeJWT:
		r, err := NewJWTResolver(cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown session mode %q", cfg.Mode)
}
