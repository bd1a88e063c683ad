package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	sessionauth "github.com/adventurelog/web/internal/auth"
	"github.com/adventurelog/web/internal/backend"
	"github.com/adventurelog/web/internal/cli/auth"
	"github.com/adventurelog/web/internal/cli/backendselect"
	"github.com/adventurelog/web/internal/cli/userconfig"
	"github.com/adventurelog/web/internal/config"
	"github.com/adventurelog/web/internal/loader"
	"github.com/adventurelog/web/internal/logger"
)

var errNotSignedIn = errors.New("not signed in: the stored auth cookie was rejected. Run 'adventurelog login' again")

// cliEnv bundles what every command needs. Tests build one directly.
type cliEnv struct {
	cfg    *config.Config
	client *backend.Client
	tokens auth.TokenStore
	prefs  *userconfig.Store // nil disables remembering backends
	log    zerolog.Logger
	out    io.Writer
}

// newEnv loads configuration and picks the backend: --backend, then
// PUBLIC_SERVER_URL, then the backend selected with 'adventurelog use'
func newEnv(backendFlag string, out io.Writer) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	prefs, err := userconfig.Default()
	if err != nil {
		return nil, err
	}

	backendURL, err := backendselect.Resolve(backendFlag, prefs)
	if err != nil {
		return nil, err
	}

	if backendURL != "" {
		cfg.Backend.BaseURL = strings.TrimRight(backendURL, "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return &cliEnv{
		cfg:    cfg,
		client: backend.New(cfg.Backend),
		tokens: auth.Default,
		prefs:  prefs,
		log:    logger.New(os.Stderr, "console").Level(zerolog.WarnLevel),
		out:    out,
	}, nil
}

// backendKey is the key stored tokens are filed under
func (rt *cliEnv) backendKey() string {
	return rt.client.BaseURL()
}

// remember records the backend in the user config, if one is attached
func (rt *cliEnv) remember(b userconfig.Backend) error {
	if rt.prefs == nil {
		return nil
	}
	if err := rt.prefs.Remember(b); err != nil {
		return fmt.Errorf("failed to save selected backend: %w", err)
	}
	return nil
}

// event builds the loader input from the stored cookie, resolving the
// session the same way the web server does
func (rt *cliEnv) event(ctx context.Context) (loader.Request, error) {
	token, err := rt.tokens.LoadToken(rt.backendKey())
	if err != nil {
		return loader.Request{}, err
	}

	resolver, err := sessionauth.NewResolver(rt.cfg.Session, rt.client)
	if err != nil {
		return loader.Request{}, err
	}

	_, err = resolver.Resolve(ctx, token)
	if err != nil && !errors.Is(err, sessionauth.ErrNoSession) {
		return loader.Request{}, err
	}

	return loader.Request{
		Ctx:     ctx,
		Session: err == nil,
		Cookies: map[string]string{backend.AuthCookieName: token},
	}, nil
}

// resultError converts the non-data load results into command errors
func resultError(result loader.Result) error {
	switch r := result.(type) {
	case *loader.Redirect:
		return errNotSignedIn
	case *loader.Failure:
		return fmt.Errorf("%s (status %d)", r.Data.Message, r.Code)
	}
	return nil
}
