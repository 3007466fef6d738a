// Package session inspects the stored access token and pairs it with the
// signed-in user's profile. The signature is never verified here: the
// backend does that on every call, the console only needs the expiry.
package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/salesops/internal/keyring"
	"github.com/julianstephens/salesops/internal/models"
)

var (
	// ErrNotSignedIn is returned when no token or profile is stored
	ErrNotSignedIn = errors.New("not signed in")
	// ErrExpired is returned when the stored access token has expired
	ErrExpired = errors.New("session expired")
)

// Claims are the fields the backend puts in its access tokens
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type,omitempty"`
	UserID    any    `json:"user_id,omitempty"`
}

// Token is an inspected access token
type Token struct {
	Raw       string
	ExpiresAt time.Time
	UserID    string
}

// Expired reports whether the token is past its expiry at now. Tokens
// without an exp claim never expire.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// Remaining returns the time left before expiry, or zero
func (t Token) Remaining(now time.Time) time.Duration {
	if t.ExpiresAt.IsZero() || t.Expired(now) {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

// Inspect decodes raw without verifying its signature
func Inspect(raw string) (Token, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Token{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	tok := Token{Raw: raw}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tok.ExpiresAt = exp.Time
	}
	switch id := claims.UserID.(type) {
	case float64:
		tok.UserID = strconv.FormatInt(int64(id), 10)
	case string:
		tok.UserID = id
	}
	return tok, nil
}

// ProfileStore is the part of the local store a session reads from
type ProfileStore interface {
	GetProfile() (models.Profile, error)
}

// Session is a signed-in user
type Session struct {
	Token   Token
	Profile models.Profile
}

// TokenSource reads the raw access token
type TokenSource func() (string, error)

// Resume rebuilds the session from the keyring token and the stored
// profile. An expired token is returned together with ErrExpired so
// callers can still show who was signed in.
func Resume(store ProfileStore, source TokenSource, now time.Time) (Session, error) {
	if source == nil {
		source = keyring.GetAccessToken
	}
	raw, err := source()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Session{}, ErrNotSignedIn
		}
		return Session{}, err
	}

	tok, err := Inspect(raw)
	if err != nil {
		return Session{}, err
	}

	profile, err := store.GetProfile()
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrNotSignedIn, err)
	}

	s := Session{Token: tok, Profile: profile}
	if tok.Expired(now) {
		return s, ErrExpired
	}
	return s, nil
}
