package loader

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adventurelog/web/internal/backend"
	"github.com/adventurelog/web/internal/models"
)

const (
	MessageFetchUsers      = "Failed to fetch users"
	MessageFetchUser       = "Failed to fetch user"
	MessageProfileNotFound = "User not found or profile is not public"
)

// Event is what the hosting layer knows about the request being rendered
type Event interface {
	Context() context.Context
	// Authenticated reports whether a session is present
	Authenticated() bool
	Cookie(name string) (string, bool)
}

// ProfileFetcher is the backend surface the loaders need
type ProfileFetcher interface {
	ListPublicProfiles(ctx context.Context, authToken string) ([]models.User, error)
	GetPublicProfile(ctx context.Context, authToken, key string) (*models.PublicProfile, error)
}

// Loader runs page loads. It holds no per-request state and is safe for
// concurrent use.
type Loader struct {
	profiles ProfileFetcher
	logger   zerolog.Logger
}

// New creates a loader
func New(profiles ProfileFetcher, logger zerolog.Logger) *Loader {
	return &Loader{
		profiles: profiles,
		logger:   logger.With().Str("component", "loader").Logger(),
	}
}

// LoadUsers loads the public profile list. Unauthenticated requests are sent
// to the site root without touching the backend.
func (l *Loader) LoadUsers(ev Event) Result {
	if !ev.Authenticated() {
		return redirectHome()
	}

	token, _ := ev.Cookie(backend.AuthCookieName)

	users, err := l.profiles.ListPublicProfiles(ev.Context(), token)
	if err != nil {
		l.logFailure(err, MessageFetchUsers)
		return newFailure(http.StatusInternalServerError, MessageFetchUsers, err)
	}

	if users == nil {
		users = []models.User{}
	}

	return &UsersPage{Props: UsersProps{Users: users}}
}

// LoadProfile loads a single public profile by uuid or username
func (l *Loader) LoadProfile(ev Event, key string) Result {
	if !ev.Authenticated() {
		return redirectHome()
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return newFailure(http.StatusNotFound, MessageProfileNotFound, nil)
	}

	token, _ := ev.Cookie(backend.AuthCookieName)

	profile, err := l.profiles.GetPublicProfile(ev.Context(), token, key)
	if err != nil {
		if backend.StatusOf(err) == http.StatusNotFound {
			l.logger.Debug().Str("profile", key).Msg("Profile not found")
			return newFailure(http.StatusNotFound, MessageProfileNotFound, err)
		}
		l.logFailure(err, MessageFetchUser)
		return newFailure(http.StatusInternalServerError, MessageFetchUser, err)
	}

	if profile.Adventures == nil {
		profile.Adventures = []models.Adventure{}
	}
	if profile.Collections == nil {
		profile.Collections = []models.Collection{}
	}

	return &ProfilePage{Profile: profile}
}

func (l *Loader) logFailure(err error, msg string) {
	evt := l.logger.Error().Err(err).Str("kind", string(backend.ErrorKind(err)))
	if status := backend.StatusOf(err); status != 0 {
		evt = evt.Int("upstream_status", status)
	}
	evt.Msg(msg)
}

func redirectHome() *Redirect {
	return &Redirect{Code: http.StatusFound, Location: "/"}
}

func newFailure(code int, message string, err error) *Failure {
	return &Failure{
		Code: code,
		Data: FailureData{Message: message},
		Kind: backend.ErrorKind(err),
		Err:  err,
	}
}
