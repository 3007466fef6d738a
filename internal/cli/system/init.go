package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/config"
)

type InitCmd struct {
	APIURL string `name:"api-url" help:"Backend base URL to write into a new config file."`
	Force  bool   `help:"Overwrite an existing config file."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := config.ExpandPath(ctx.ConfigPath)

	_, err := os.Stat(path)
	exists := err == nil
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access config file: %w", err)
	}

	if !exists || c.Force {
		cfg := ctx.Config
		if c.APIURL != "" {
			cfg.APIURL = c.APIURL
		}
		if cfg.APIURL != "" {
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		ctx.Config = cfg
		fmt.Printf("Wrote config to: %s\n", path)
	} else if c.APIURL != "" {
		fmt.Printf("Config already exists at %s, use --force to overwrite it\n", path)
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized salesops storage at: %s\n", ctx.Store.GetConfigPath())

	if ctx.Config.APIURL == "" {
		fmt.Printf("Set api_url in %s or export %s before signing in.\n", path, config.EnvAPIURL)
	}
	return nil
}
