package interaction

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/julianstephens/salesops/internal/cli"
)

// TriggerAddCmd attaches a manual trigger to a partner
type TriggerAddCmd struct {
	Partner     int    `arg:"" help:"Partner id."`
	Description string `arg:"" help:"What should happen next with this partner."`
}

func (c *TriggerAddCmd) Run(ctx *cli.Context) error {
	ctrl, err := ctx.Controller(ctx.Ctx())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctrl.SetTriggerPartner(strconv.Itoa(c.Partner))
	ctrl.SetTriggerDescription(c.Description)
	if err := ctrl.CreateManualTrigger(ctx.Ctx()); err != nil {
		return err
	}

	fmt.Printf("✓ Trigger created for partner %d\n", c.Partner)
	return nil
}

// TriggerUploadCmd sends a spreadsheet of triggers for bulk creation
type TriggerUploadCmd struct {
	File string `arg:"" type:"existingfile" help:"Spreadsheet to upload."`
}

func (c *TriggerUploadCmd) Run(ctx *cli.Context) error {
	content, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	ctrl, err := ctx.Controller(ctx.Ctx())
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if err := ctrl.UploadTriggers(ctx.Ctx(), filepath.Base(c.File), content); err != nil {
		return err
	}

	res := ctrl.State().LastUpload
	if res == nil {
		return nil
	}
	if res.Message != "" {
		fmt.Println(res.Message)
	}
	fmt.Printf("✓ %d trigger(s) created, %d updated\n", res.Created, res.Updated)
	for _, e := range res.Errors {
		fmt.Printf("  ⚠ %s\n", e)
	}
	return nil
}
