package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/adventurelog/web/internal/auth"
	"github.com/adventurelog/web/internal/backend"
)

const (
	sessionKey      = "session"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-Id"
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set(sessionKey, sessionData)
}

// GetSessionData returns the session attached by SessionMiddleware
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok && sessionData != nil
}

// authCookie returns the raw auth cookie value. gin's c.Cookie unescapes
// the value, which would change what gets forwarded.
func authCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(backend.AuthCookieName)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// SessionMiddleware resolves the auth cookie into a session. It never
// aborts: pages decide what an anonymous request gets.
func SessionMiddleware(resolver auth.Resolver, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := authCookie(c.Request)
		if !ok || token == "" {
			c.Next()
			return
		}

		sessionData, err := resolver.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			setSession(c, sessionData)
		case errors.Is(err, auth.ErrNoSession):
			log.Debug().Err(err).Msg("Auth cookie did not resolve to a session")
		default:
			log.Warn().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Failed to resolve session")
		}

		c.Next()
	}
}

// RequestIDMiddleware tags every request with a ULID, reusing a valid
// incoming X-Request-Id
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := ulid.ParseStrict(id); err != nil {
			id = ulid.Make().String()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// ginEvent adapts a gin request to loader.Event
type ginEvent struct {
	c *gin.Context
}

func (e ginEvent) Context() context.Context {
	return e.c.Request.Context()
}

func (e ginEvent) Authenticated() bool {
	_, ok := GetSessionData(e.c)
	return ok
}

func (e ginEvent) Cookie(name string) (string, bool) {
	cookie, err := e.c.Request.Cookie(name)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}
