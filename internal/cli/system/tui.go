package system

import (
	"fmt"

	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/instance"
	"github.com/julianstephens/salesops/internal/logger"
	"github.com/julianstephens/salesops/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	sess, err := ctx.Session()
	if err != nil {
		return err
	}
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	lock, err := instance.Acquire(ctx.Config.Dir(ctx.ConfigPath))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release instance lock", "error", err)
		}
	}()

	logger.Info("Starting console", "user", sess.Profile.Username, "role", sess.Profile.Role)
	if err := tui.Run(ctx.Ctx(), client, ctx.ControllerOptions(sess.Profile)); err != nil {
		return fmt.Errorf("console exited with an error: %w", err)
	}
	return nil
}
