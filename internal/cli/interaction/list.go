// Package interaction holds the one-shot commands that drive the
// interactions controller without the interactive console.
package interaction

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/cli/render"
	"github.com/julianstephens/salesops/internal/interactions"
	"github.com/julianstephens/salesops/internal/models"
)

// FilterFlags are shared by the commands that read the pending list
type FilterFlags struct {
	Page    int    `default:"1" help:"Pending page to show."`
	Partner string `help:"Only rows for this partner id."`
	Status  string `help:"Only rows with this status label."`
	Trigger string `help:"Only rows with this trigger label."`
	Channel string `help:"Only rows from this sales channel id (managers only)."`
	Seller  string `help:"Only rows for this seller id; needs --channel."`
}

func (f FilterFlags) filters() models.Filters {
	return models.Filters{
		Partner: f.Partner,
		Status:  f.Status,
		Trigger: f.Trigger,
		Channel: f.Channel,
		Seller:  f.Seller,
	}
}

// apply sets the filters and page on a controller before its first load
func (f FilterFlags) apply(ctrl *interactions.Controller) {
	if filters := f.filters(); filters != (models.Filters{}) {
		ctrl.ApplyFilters(filters)
	}
	ctrl.SetPendingPage(f.Page)
}

type PendingCmd struct {
	FilterFlags
}

func (c *PendingCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(ctx.Ctx(), c.apply)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	s := ctrl.State()
	vm := interactions.ViewOf(s)
	render.Pending(os.Stdout, vm.Pending)
	render.Pager(os.Stdout, vm.PendingPage, vm.PendingPages, vm.PendingTotal)
	if len(s.Dynamic.Statuses) > 0 {
		fmt.Printf("statuses: %s\n", strings.Join(s.Dynamic.Statuses, ", "))
	}
	if len(s.Dynamic.Triggers) > 0 {
		fmt.Printf("triggers: %s\n", strings.Join(s.Dynamic.Triggers, ", "))
	}
	return nil
}

type TodayCmd struct {
	Page    int    `default:"1" help:"Page of today's list to show."`
	Partner string `help:"Only rows for this partner id."`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(ctx.Ctx())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	s := ctrl.State()
	vm := interactions.Derive(s.Dynamic.Pending, s.Dynamic.Today, c.Partner, c.Page)
	render.Today(os.Stdout, vm.Today)
	render.Pager(os.Stdout, vm.TodayPage, vm.TodayPages, vm.TodayTotal)
	return nil
}

type QuotaCmd struct{}

func (c *QuotaCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(ctx.Ctx())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	render.Quota(os.Stdout, ctrl.State().Static.Quota)
	return nil
}
