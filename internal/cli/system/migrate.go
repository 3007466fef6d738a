package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/salesops/internal/backup"
	"github.com/julianstephens/salesops/internal/cli"
	"github.com/julianstephens/salesops/internal/storage/sqlite"
)

type MigrateCmd struct {
	NoBackup bool `help:"Skip the snapshot of a SQLite store taken before migrating."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	if store, ok := ctx.Store.(*sqlite.Store); ok && !c.NoBackup {
		path := store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			snap, err := backup.NewManager(path, ctx.Clock).Create()
			if err != nil {
				return fmt.Errorf("failed to back up store before migrating: %w", err)
			}
			fmt.Printf("Backed up store to: %s\n", snap)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access store: %w", err)
		}
	}

	count, err := ctx.Store.Migrate(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Store is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
