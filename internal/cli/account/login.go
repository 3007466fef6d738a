package account

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/salesops/internal/api"
	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/keyring"
	"github.com/julianstephens/salesops/internal/logger"
)

type LoginCmd struct {
	Identifier string `arg:"" optional:"" help:"Username, e-mail or seller id. Prompted for when omitted."`
	Password   string `env:"SALESOPS_PASSWORD" help:"Password. Prompted for when omitted."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	if c.Identifier == "" || c.Password == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	client, err := ctx.Client()
	if err != nil {
		return err
	}

	creds, err := client.Login(ctx.Ctx(), strings.TrimSpace(c.Identifier), c.Password)
	if err != nil {
		if api.IsUnauthorized(err) {
			var se *api.StatusError
			if errors.As(err, &se) && se.Detail != "" {
				return fmt.Errorf("login rejected: %s", se.Detail)
			}
			return errors.New("login rejected: invalid credentials")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := keyring.SetTokens(creds.Access, creds.Refresh); err != nil {
		return err
	}
	profile := creds.Profile
	profile.SignedInAt = ctx.Now().UTC()
	if err := ctx.Store.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	logger.Info("Signed in", "user", profile.Username, "role", profile.Role)

	fmt.Printf("✓ Signed in as %s (%s)\n", profile.Username, profile.Role)
	if profile.FirstAccess {
		fmt.Println("  This is your first access: change your password in the web console.")
	}
	return nil
}

func (c *LoginCmd) prompt() error {
	var fields []huh.Field
	if c.Identifier == "" {
		fields = append(fields, huh.NewInput().
			Title("Username, e-mail or seller id").
			Value(&c.Identifier).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("required")
				}
				return nil
			}))
	}
	if c.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&c.Password))
	}
	if err := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula()).Run(); err != nil {
		return fmt.Errorf("login cancelled: %w", err)
	}
	return nil
}
