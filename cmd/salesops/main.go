package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/cli/account"
	"github.com/julianstephens/salesops/internal/cli/interaction"
	"github.com/julianstephens/salesops/internal/cli/system"
	"github.com/julianstephens/salesops/internal/config"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/errors"
	"github.com/julianstephens/salesops/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config}"`
	Debug   bool   `help:"Log debug output to stderr as well as the log file."`

	Init    system.InitCmd    `cmd:"" help:"Write a config file and initialize local storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run local storage migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive console." default:"1"`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL store connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check the OS keyring." default:"1"`
	} `cmd:"" help:"Manage secrets kept in the OS keyring."`

	Login  account.LoginCmd  `cmd:"" help:"Sign in to the backend."`
	Logout account.LogoutCmd `cmd:"" help:"Sign out and forget the stored tokens."`
	Whoami account.WhoamiCmd `cmd:"" help:"Show the signed-in user."`

	Pending  interaction.PendingCmd  `cmd:"" help:"List pending interactions."`
	Today    interaction.TodayCmd    `cmd:"" help:"List interactions registered today."`
	Quota    interaction.QuotaCmd    `cmd:"" help:"Show progress towards the daily goal."`
	Register interaction.RegisterCmd `cmd:"" help:"Register an interaction, optionally opening an opportunity."`
	Trigger  struct {
		Add    interaction.TriggerAddCmd    `cmd:"" help:"Attach a manual trigger to a partner."`
		Upload interaction.TriggerUploadCmd `cmd:"" help:"Upload a spreadsheet of triggers."`
	} `cmd:"" help:"Manage partner triggers."`
	History  interaction.HistoryCmd  `cmd:"" help:"Show past interactions with a partner."`
	Activity interaction.ActivityCmd `cmd:"" help:"List writes made from this machine."`
}

// commands that open the store themselves or never touch it
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Sales operations console"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  config.DefaultPath(),
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := strings.Fields(ctx.Command())[0]

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
	}
	if command != "keyring" {
		store, err := cli.OpenStore(cfg)
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
		appCtx.Store = store

		if !skipLoad[command] {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	parent, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	appCtx.Parent = parent

	logger.Debug("Running command", "command", ctx.Command())
	if err := ctx.Run(appCtx); err != nil {
		stop()
		if appCtx.Store != nil {
			appCtx.Store.Close()
		}
		errors.Fatal(err)
	}
}
