// Package account holds the commands that sign the user in and out.
package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/keyring"
	"github.com/julianstephens/salesops/internal/logger"
	"github.com/julianstephens/salesops/internal/session"
	"github.com/julianstephens/salesops/internal/storage"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	signedIn := true
	if err := keyring.DeleteTokens(); err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
		signedIn = false
	}
	if err := ctx.Store.ClearProfile(); err != nil {
		return err
	}
	logger.Info("Signed out")

	if signedIn {
		fmt.Println("✓ Signed out")
	} else {
		fmt.Println("Not signed in")
	}
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	s, err := session.Resume(ctx.Store, ctx.Token, ctx.Now())
	switch {
	case errors.Is(err, session.ErrExpired):
	case errors.Is(err, session.ErrNotSignedIn), errors.Is(err, storage.ErrNoProfile):
		return errors.New(constants.MsgNotSignedIn)
	case err != nil:
		return err
	}

	p := s.Profile
	fmt.Printf("User:     %s\n", p.Username)
	if p.Email != "" {
		fmt.Printf("E-mail:   %s\n", p.Email)
	}
	fmt.Printf("Role:     %s\n", p.Role)
	if p.SellerID != "" {
		fmt.Printf("Seller:   %s\n", p.SellerID)
	}
	if len(p.Channels) > 0 {
		names := make([]string, 0, len(p.Channels))
		for _, ch := range p.Channels {
			names = append(names, ch.Name)
		}
		fmt.Printf("Channels: %s\n", strings.Join(names, ", "))
	}
	fmt.Printf("Backend:  %s\n", p.APIURL)

	switch {
	case errors.Is(err, session.ErrExpired):
		fmt.Printf("Token:    expired at %s, run 'salesops login'\n", s.Token.ExpiresAt.Local().Format(constants.DateTimeFormat))
	case s.Token.ExpiresAt.IsZero():
		fmt.Println("Token:    no expiry")
	default:
		fmt.Printf("Token:    valid until %s\n", s.Token.ExpiresAt.Local().Format(constants.DateTimeFormat))
	}
	return nil
}
