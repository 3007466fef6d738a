package interaction

import (
	"fmt"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/constants"
	"github.com/julianstephens/salesops/internal/interactions"
)

type RegisterCmd struct {
	Row         int    `arg:"" help:"Interaction row id from 'salesops pending' or 'salesops today'."`
	Type        string `required:"" enum:"whatsapp,email,ligacao,visita" help:"Contact medium: whatsapp, email, ligacao or visita."`
	Opportunity bool   `help:"Also open an opportunity for the partner."`
	Value       string `help:"Opportunity value, e.g. 1.234,56."`
	Note        string `help:"Opportunity note."`

	FilterFlags `embed:"" prefix:"from-"`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(ctx.Ctx(), c.FilterFlags.apply)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctrl.Expand(c.Row)
	ctrl.SetTypeDraft(c.Row, constants.InteractionType(c.Type))
	if c.Opportunity {
		ctrl.SetValueDraft(c.Value)
		ctrl.SetNoteDraft(c.Note)
	}

	if err := ctrl.RegisterInteraction(ctx.Ctx(), c.Row, c.Opportunity); err != nil {
		if interactions.IsValidation(err) {
			return fmt.Errorf("%w (row %d)", err, c.Row)
		}
		return err
	}

	if c.Opportunity {
		fmt.Println("✓ Interaction and opportunity registered")
	} else {
		fmt.Println("✓ Interaction registered")
	}
	return nil
}
