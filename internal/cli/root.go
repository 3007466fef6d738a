package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/clock"
	"github.com/julianstephens/salesops/internal/config"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/keyring"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
	"github.com/julianstephens/salesops/internal/session"
	"github.com/julianstephens/salesops/internal/storage"
	"github.com/julianstephens/salesops/internal/storage/postgres"
	"github.com/julianstephens/salesops/internal/storage/sqlite"
)

// Context is handed to every command's Run method
type Context struct {
	Config     config.Config
	ConfigPath string
	Store      storage.Provider
	Clock      clock.Clock

	// Parent is cancelled on interrupt
	Parent context.Context

	// Token overrides the keyring lookup; tests set it
	Token session.TokenSource
}

// OpenStore builds the store the config points at without opening it
func OpenStore(cfg config.Config) (storage.Provider, error) {
	target := cfg.StorePath()
	if target == config.KeyringStore {
		connStr, err := keyring.GetStoreURL()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("store is set to keyring but no connection string is stored, run 'salesops keyring set'")
			}
			return nil, fmt.Errorf("failed to read store connection string: %w", err)
		}
		target = connStr
	}

	if config.IsPostgres(target) || strings.Contains(target, "host=") {
		if err := postgres.ValidateConnString(target); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(target), nil
	}
	return sqlite.NewStore(target), nil
}

// Ctx returns the command's parent context
func (c *Context) Ctx() context.Context {
	if c.Parent == nil {
		return context.Background()
	}
	return c.Parent
}

// Now reads the context clock
func (c *Context) Now() time.Time {
	return c.clock().Now()
}

func (c *Context) tokenSource() session.TokenSource {
	if c.Token != nil {
		return c.Token
	}
	return keyring.GetAccessToken
}

// Session resumes the signed-in session. An expired token is reported
// as an error asking the user to sign in again.
func (c *Context) Session() (session.Session, error) {
	s, err := session.Resume(c.Store, c.tokenSource(), c.Now())
	switch {
	case errors.Is(err, session.ErrNotSignedIn):
		return s, errors.New(constants.MsgNotSignedIn)
	case errors.Is(err, session.ErrExpired):
		return s, fmt.Errorf("session for %s expired at %s, run 'salesops login' again",
			s.Profile.Username, s.Token.ExpiresAt.Local().Format(constants.DateTimeFormat))
	}
	return s, err
}

// Client builds an API client that authenticates with the keyring token
func (c *Context) Client() (*api.Client, error) {
	if err := c.Config.Validate(); err != nil {
		return nil, err
	}
	source := c.tokenSource()
	return api.New(api.Options{
		BaseURL:   c.Config.APIURL,
		Timeout:   c.Config.RequestTimeout,
		RateLimit: c.Config.RateLimit,
		Burst:     c.Config.Burst,
		Token:     api.TokenFunc(source),
	})
}

func (c *Context) clock() clock.Clock {
	if c.Clock == nil {
		return clock.Real()
	}
	return c.Clock
}

// RetryPolicy is the configured backoff for backend calls
func (c *Context) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:  c.Config.Retry.MaxAttempts,
		InitialDelay: c.Config.Retry.InitialDelay,
		Clock:        c.clock(),
		Retryable:    api.IsTransient,
	}
}

// ControllerOptions returns the controller settings for profile
func (c *Context) ControllerOptions(profile models.Profile) interactions.Options {
	return interactions.Options{
		Profile:  profile,
		Clock:    c.clock(),
		Retry:    c.RetryPolicy(),
		Debounce: c.Config.Debounce,
		Journal:  c.Store,
	}
}

// Controller resumes the session and returns a controller whose
// reference data and first page are already loaded. setup runs before
// the first load, so filters and pages it sets reach that request.
func (c *Context) Controller(ctx context.Context, setup ...func(*interactions.Controller)) (*interactions.Controller, error) {
	sess, err := c.Session()
	if err != nil {
		return nil, err
	}
	client, err := c.Client()
	if err != nil {
		return nil, err
	}
	ctrl := interactions.New(client, c.ControllerOptions(sess.Profile))
	for _, fn := range setup {
		fn(ctrl)
	}
	// reloads queued by setup are inert before the static load
	ctrl.Wait()
	if err := ctrl.LoadStatic(ctx); err != nil {
		ctrl.Close()
		return nil, err
	}
	return ctrl, nil
}
