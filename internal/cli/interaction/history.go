package interaction

import (
	"context"
	"fmt"
	"os"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/cli/render"
	"github.com/julianstephens/salesops/internal/models"
	"github.com/julianstephens/salesops/internal/retry"
)

// HistoryCmd lists past interactions with one partner
type HistoryCmd struct {
	Partner int `arg:"" help:"Partner id."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Session(); err != nil {
		return err
	}
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	entries, err := retry.Value(ctx.Ctx(), ctx.RetryPolicy(), func(rctx context.Context) ([]models.HistoryEntry, error) {
		return client.History(rctx, c.Partner)
	})
	if err != nil {
		return fmt.Errorf("failed to load history for partner %d: %w", c.Partner, err)
	}
	render.History(os.Stdout, entries)
	return nil
}

// ActivityCmd lists the writes this machine made, newest first
type ActivityCmd struct {
	Limit int `default:"20" help:"Maximum entries to show."`
}

func (c *ActivityCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.ListActivity(c.Limit)
	if err != nil {
		return err
	}
	render.Activity(os.Stdout, entries)
	return nil
}
