package sources

import (
	"fmt"
	"strings"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/datasources"
)

type SourcesListCmd struct{}

func (c *SourcesListCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	list, err := datasources.NewService(store, ctx.Clock).List(uctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No data sources configured. Run 'momentum sources init' to create the defaults.")
		return nil
	}

	ctx.Printf("%-15s %-8s %-10s %s\n", "SOURCE", "ENABLED", "RETENTION", "SCOPES")
	for _, ds := range list {
		enabled := "no"
		if ds.Enabled {
			enabled = "yes"
		}
		scopes := strings.Join(ds.Scopes, ",")
		if scopes == "" {
			scopes = "-"
		}
		ctx.Printf("%-15s %-8s %-10s %s\n", ds.Source, enabled, fmt.Sprintf("%dd", ds.RetentionDays), scopes)
	}
	return nil
}

type SourcesInitCmd struct{}

func (c *SourcesInitCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	created, err := datasources.NewService(store, ctx.Clock).Initialize(uctx)
	if err != nil {
		return fmt.Errorf("failed to initialize data sources: %w", err)
	}
	if created == 0 {
		ctx.Println("All default data sources already exist")
		return nil
	}
	ctx.Printf("✓ Created %d data source(s)\n", created)
	return nil
}

type SourcesSetCmd struct {
	Source      string   `arg:"" help:"Source name (calendar, location, notifications, health or a custom name)."`
	Enabled     *bool    `help:"Enable (true) or disable (false) the source."`
	Retention   *int     `help:"Retention window in days."`
	Scope       []string `help:"Replace the granted scopes (repeatable)."`
	ClearScopes bool     `help:"Remove all granted scopes."`
}

func (c *SourcesSetCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	in := datasources.UpdateInput{
		Source:        c.Source,
		Enabled:       c.Enabled,
		RetentionDays: c.Retention,
	}
	switch {
	case c.ClearScopes:
		empty := []string{}
		in.Scopes = &empty
	case len(c.Scope) > 0:
		scopes := c.Scope
		in.Scopes = &scopes
	}

	if err := datasources.NewService(store, ctx.Clock).Update(uctx, in); err != nil {
		return fmt.Errorf("failed to update %s: %w", c.Source, err)
	}
	ctx.Printf("✓ Data source %s updated\n", strings.TrimSpace(c.Source))
	return nil
}
