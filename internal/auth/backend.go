package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/adventurelog/web/internal/backend"
)

// BackendResolver asks the backend who owns the token
type BackendResolver struct {
	users UserFetcher
}

// NewBackendResolver creates a resolver backed by the user endpoint
func NewBackendResolver(users UserFetcher) *BackendResolver {
	return &BackendResolver{users: users}
}

// Resolve returns ErrNoSession for an empty token or when the backend
// rejects it. Other failures are returned wrapped.
func (r *BackendResolver) Resolve(ctx context.Context, token string) (*SessionData, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	user, err := r.users.CurrentUser(ctx, token)
	if err != nil {
		switch backend.StatusOf(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	userID := user.UUID
	if userID == "" {
		userID = strconv.Itoa(max(user.PK, user.ID))
	}

	return &SessionData{
		UserID:     userID,
		Username:   user.Username,
		IsStaff:    user.IsStaff,
		AuthMethod: "backend",
	}, nil
}
