package system

import (
	"context"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/retention"
)

// PurgeCmd runs one retention purge immediately
type PurgeCmd struct{}

func (c *PurgeCmd) Run(ctx *cli.Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	report, err := retention.NewPurger(store, ctx.Clock).Purge(context.Background())
	ctx.Printf("Users scanned:     %d\n", report.UsersScanned)
	ctx.Printf("Nudges deleted:    %d\n", report.NudgesDeleted)
	ctx.Printf("Check-ins deleted: %d\n", report.CheckinsDeleted)
	if report.UsersFailed > 0 {
		ctx.Printf("Users failed:      %d\n", report.UsersFailed)
	}
	return err
}
