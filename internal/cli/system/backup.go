package system

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/migration"
	"github.com/julianstephens/momentum/internal/storage/sqlite"
)

// BackupCmd writes a consistent copy of the SQLite database
type BackupCmd struct {
	Output string `arg:"" optional:"" help:"Destination file. Defaults to a timestamped file in the backups directory next to the database."`
}

func (c *BackupCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	if store.Driver() != migration.DriverSQLite {
		return errors.New("backup only supports SQLite storage, use pg_dump for PostgreSQL")
	}

	dest := c.Output
	if dest == "" {
		name := fmt.Sprintf("momentum-%s.db", ctx.Clock().UTC().Format("20060102-150405"))
		dest = filepath.Join(filepath.Dir(store.GetConfigPath()), "backups", name)
	}
	dest, err = cli.ExpandHome(dest)
	if err != nil {
		return err
	}

	if err := sqlite.Backup(store.DB(), dest); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.Printf("✓ Backup created: %s\n", dest)
	return nil
}
