package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/adventurelog/web/internal/config"
	"github.com/adventurelog/web/internal/models"
)

const (
	// AuthCookieName is the cookie holding the backend session token
	AuthCookieName = "auth"

	publicProfilesPath = "/auth/public-profiles/"
	currentUserPath    = "/auth/user/"

	maxResponseBody = 10 << 20
)

// Client represents an HTTP client for the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new backend client. The base URL comes from configuration
// and is never read from the environment here.
func New(cfg config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the backend root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthCookieHeader renders the Cookie header value forwarded to the backend.
// An empty token yields an empty string and the header is left off.
func AuthCookieHeader(token string) string {
	if token == "" {
		return ""
	}
	return fmt.Sprintf("%s=%s", AuthCookieName, token)
}

// ListPublicProfiles returns every user with a public profile
func (c *Client) ListPublicProfiles(ctx context.Context, authToken string) ([]models.User, error) {
	endpoint := c.baseURL + publicProfilesPath

	var users []models.User
	if err := c.getJSON(ctx, endpoint, authToken, &users); err != nil {
		return nil, err
	}

	if users == nil {
		return nil, &ValidationError{URL: endpoint, Err: errors.New("expected a JSON array, got null")}
	}
	if err := models.ValidateUsers(users); err != nil {
		return nil, &ValidationError{URL: endpoint, Err: err}
	}

	return users, nil
}

// GetPublicProfile returns a single public profile with its public adventures
// and collections
func (c *Client) GetPublicProfile(ctx context.Context, authToken, key string) (*models.PublicProfile, error) {
	endpoint := c.baseURL + publicProfilesPath + url.PathEscape(key) + "/"

	var profile *models.PublicProfile
	if err := c.getJSON(ctx, endpoint, authToken, &profile); err != nil {
		return nil, err
	}

	if err := models.ValidateProfile(profile); err != nil {
		return nil, &ValidationError{URL: endpoint, Err: err}
	}

	return profile, nil
}

// CurrentUser returns the user owning the auth token
func (c *Client) CurrentUser(ctx context.Context, authToken string) (*models.User, error) {
	endpoint := c.baseURL + currentUserPath

	var user *models.User
	if err := c.getJSON(ctx, endpoint, authToken, &user); err != nil {
		return nil, err
	}

	if err := models.ValidateUser(user); err != nil {
		return nil, &ValidationError{URL: endpoint, Err: err}
	}

	return user, nil
}

// getJSON issues one GET and decodes a 2xx body into out. There are no
// retries; cancellation follows ctx.
func (c *Client) getJSON(ctx context.Context, endpoint, authToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &TransportError{URL: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	if cookie := AuthCookieHeader(authToken); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{URL: endpoint, Status: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &TransportError{URL: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{URL: endpoint, Err: err}
	}

	return nil
}
