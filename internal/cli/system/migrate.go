package system

import (
	"fmt"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/storage"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, err := storage.Init(ctx.DSN())
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer store.Close()

	current, _, err := store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	ctx.Printf("✓ Database is up to date (schema version %d)\n", current)
	ctx.Printf("  Location: %s\n", store.GetConfigPath())
	return nil
}
