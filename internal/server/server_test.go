package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adventurelog/web/internal/auth"
	"github.com/adventurelog/web/internal/config"
	"github.com/adventurelog/web/internal/loader"
	"github.com/adventurelog/web/internal/models"
)

const validToken = "abc123"

// stubAPI plays the backend: /auth/user/ accepts validToken and the profile
// routes answer with whatever the test configured
type stubAPI struct {
	profilesStatus int
	profilesBody   string
	profileStatus  int
	profileBody    string

	mu   sync.Mutex
	hits map[string][]http.Header
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.hits == nil {
		s.hits = map[string][]http.Header{}
	}
	s.hits[r.URL.Path] = append(s.hits[r.URL.Path], r.Header.Clone())
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/auth/user/":
		if r.Header.Get("Cookie") != "auth="+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Authentication credentials were not provided."}`)
			return
		}
		_, _ = io.WriteString(w, `{"pk":1,"uuid":"3f8a9c2e-5b1d-4e7a-9c3b-2d1e0f4a5b6c","username":"alice"}`)
	case "/auth/public-profiles/":
		w.WriteHeader(s.profilesStatus)
		_, _ = io.WriteString(w, s.profilesBody)
	default:
		w.WriteHeader(s.profileStatus)
		_, _ = io.WriteString(w, s.profileBody)
	}
}

func (s *stubAPI) headers(path string) []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.hits[path]...)
}

func newTestServer(t *testing.T, api *stubAPI) *Server {
	t.Helper()
	backendSrv := httptest.NewServer(api)
	t.Cleanup(backendSrv.Close)

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: backendSrv.URL},
		Server:  config.ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:5173"}},
		Session: config.SessionConfig{Mode: config.SessionModeBackend},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth", Value: token})
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestUsersPage_AnonymousRedirects(t *testing.T) {
	api := &stubAPI{profilesStatus: http.StatusOK, profilesBody: `[]`}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users", "")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, api.headers("/auth/public-profiles/"))
	assert.Empty(t, api.headers("/auth/user/"), "no cookie means no session lookup")
}

func TestUsersPage_RejectedCookieRedirects(t *testing.T) {
	api := &stubAPI{profilesStatus: http.StatusOK, profilesBody: `[]`}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users", "stale")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Len(t, api.headers("/auth/user/"), 1)
	assert.Empty(t, api.headers("/auth/public-profiles/"))
}

func TestUsersPage_RendersUsers(t *testing.T) {
	api := &stubAPI{
		profilesStatus: http.StatusOK,
		profilesBody:   `[{"id":1,"name":"Alice"},{"pk":2,"uuid":"9b2e6c1a-0f4d-4c8e-8a7b-1c2d3e4f5a6b","username":"bob","date_joined":"2024-03-01T10:00:00Z"}]`,
	}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users", validToken)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, `href="/users/9b2e6c1a-0f4d-4c8e-8a7b-1c2d3e4f5a6b"`)
	assert.Contains(t, body, "Joined March 2024")

	hdrs := api.headers("/auth/public-profiles/")
	require.Len(t, hdrs, 1)
	assert.Equal(t, "auth="+validToken, hdrs[0].Get("Cookie"))
}

func TestUsersPage_EmptyList(t *testing.T) {
	api := &stubAPI{profilesStatus: http.StatusOK, profilesBody: `[]`}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users", validToken)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No users found with public profiles.")
}

func TestUsersPage_BackendFailure(t *testing.T) {
	api := &stubAPI{profilesStatus: http.StatusInternalServerError, profilesBody: `{"detail":"database is down"}`}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users", validToken)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch users")
	assert.NotContains(t, w.Body.String(), "database is down", "upstream details stay out of the page")
}

func TestUsersData(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		status int
		body   string
		want   string
	}{
		{
			name:   "anonymous",
			token:  "",
			status: http.StatusOK,
			body:   `[]`,
			want:   `{"type":"redirect","status":302,"location":"/"}`,
		},
		{
			name:   "success",
			token:  validToken,
			status: http.StatusOK,
			body:   `[{"id":1,"name":"Alice"}]`,
			want:   `{"type":"data","status":200,"data":{"props":{"users":[{"id":1,"name":"Alice"}]}}}`,
		},
		{
			name:   "empty",
			token:  validToken,
			status: http.StatusOK,
			body:   `[]`,
			want:   `{"type":"data","status":200,"data":{"props":{"users":[]}}}`,
		},
		{
			name:   "failure",
			token:  validToken,
			status: http.StatusBadGateway,
			body:   ``,
			want:   `{"type":"failure","status":500,"data":{"message":"Failed to fetch users"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &stubAPI{profilesStatus: tt.status, profilesBody: tt.body})

			w := get(t, srv, "/api/pages/users", tt.token)

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestProfilePage(t *testing.T) {
	api := &stubAPI{
		profileStatus: http.StatusOK,
		profileBody: `{"pk":2,"username":"bob","first_name":"Bob","last_name":"Builder",
			"adventures":[{"id":"a1","name":"Mont Blanc","location":"Chamonix","is_public":true}],
			"collections":[]}`,
	}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users/bob", validToken)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Bob Builder")
	assert.Contains(t, body, "Mont Blanc")
	assert.Contains(t, body, "No public collections yet.")
	assert.Len(t, api.headers("/auth/public-profiles/bob/"), 1)
}

func TestProfilePage_NotFound(t *testing.T) {
	api := &stubAPI{profileStatus: http.StatusNotFound, profileBody: `{"error":"User not found or profile is not public."}`}
	srv := newTestServer(t, api)

	w := get(t, srv, "/users/ghost", validToken)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found or profile is not public")

	w = get(t, srv, "/api/pages/users/ghost", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"type":"failure","status":404,"data":{"message":"User not found or profile is not public"}}`, w.Body.String())
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, &stubAPI{})

	w := get(t, srv, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign in")

	w = get(t, srv, "/", validToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Signed in as <strong>alice</strong>")
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, &stubAPI{})

	w := get(t, srv, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
}

func TestSystemInfo(t *testing.T) {
	srv := newTestServer(t, &stubAPI{})

	w := get(t, srv, "/api/system/info", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(t, srv, "/api/system/info", validToken)
	require.Equal(t, http.StatusOK, w.Code)

	var info SystemInfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "test", info.Version)
	assert.Equal(t, config.SessionModeBackend, info.SessionMode)
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, &stubAPI{})

	w := get(t, srv, "/health", "")
	generated := w.Header().Get(requestIDHeader)
	_, err := ulid.ParseStrict(generated)
	require.NoError(t, err)

	incoming := ulid.Make().String()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, incoming)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "<script>")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &stubAPI{profilesStatus: http.StatusOK, profilesBody: `[]`})

	req := httptest.NewRequest(http.MethodGet, "/api/pages/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/pages/users", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(&config.Config{
		Backend: config.BackendConfig{BaseURL: "localhost:8000"},
		Session: config.SessionConfig{Mode: config.SessionModeBackend},
	}, zerolog.Nop(), "test")
	require.Error(t, err)
}

// staticResolver hands out a fixed session for any non-empty token
type staticResolver struct {
	session *auth.SessionData
}

func (r staticResolver) Resolve(ctx context.Context, token string) (*auth.SessionData, error) {
	if r.session == nil {
		return nil, auth.ErrNoSession
	}
	return r.session, nil
}

// countingProfiles counts loader fetches
type countingProfiles struct {
	mu    sync.Mutex
	calls int
}

func (c *countingProfiles) ListPublicProfiles(ctx context.Context, authToken string) ([]models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return []models.User{{ID: 1, Name: "Alice"}}, nil
}

func (c *countingProfiles) GetPublicProfile(ctx context.Context, authToken, key string) (*models.PublicProfile, error) {
	return nil, nil
}

func TestSessionMiddleware_DrivesLoader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: "http://localhost:8000"},
		Session: config.SessionConfig{Mode: config.SessionModeBackend},
	}

	tests := []struct {
		name      string
		resolver  staticResolver
		token     string
		wantCode  int
		wantCalls int
	}{
		{"session present", staticResolver{session: &auth.SessionData{UserID: "1", Username: "alice"}}, "t", http.StatusOK, 1},
		{"resolver says no", staticResolver{}, "t", http.StatusFound, 0},
		{"no cookie", staticResolver{session: &auth.SessionData{UserID: "1"}}, "", http.StatusFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &countingProfiles{}
			srv, err := newServer(cfg, zerolog.Nop(), "test", tt.resolver, loader.New(profiles, zerolog.Nop()))
			require.NoError(t, err)

			w := get(t, srv, "/users", tt.token)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCalls, profiles.calls)
		})
	}
}
