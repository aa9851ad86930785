package profile

import (
	"fmt"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/profile"
	"github.com/julianstephens/momentum/internal/retention"
)

type IdentityAddCmd struct {
	Statement string `arg:"" help:"Identity statement, e.g. \"I am someone who writes daily\"."`
}

func (c *IdentityAddCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	p, err := profile.NewService(store, ctx.Clock).AddIdentityStatement(uctx, c.Statement)
	if err != nil {
		return fmt.Errorf("failed to add identity statement: %w", err)
	}
	ctx.Printf("✓ Identity statement added (%d total)\n", len(p.IdentityStatements))
	return nil
}

type IdentityListCmd struct{}

func (c *IdentityListCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	p, err := profile.NewService(store, ctx.Clock).GetProfile(uctx)
	if err != nil {
		return err
	}
	if p == nil || len(p.IdentityStatements) == 0 {
		ctx.Println("No identity statements yet")
		return nil
	}
	for i, s := range p.IdentityStatements {
		ctx.Printf("%d. %s\n", i+1, s)
	}
	return nil
}

type UserSetCmd struct {
	Name  string `help:"Display name."`
	Email string `help:"Email address."`
	Image string `help:"Avatar image URL."`
}

func (c *UserSetCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	u, err := profile.NewService(store, ctx.Clock).UpsertCurrentUser(uctx, profile.UserInput{
		Name:     c.Name,
		Email:    c.Email,
		ImageURL: c.Image,
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	ctx.Printf("✓ User %s saved\n", u.UserID)
	if u.Name != "" {
		ctx.Printf("  Name:  %s\n", u.Name)
	}
	if u.Email != "" {
		ctx.Printf("  Email: %s\n", u.Email)
	}
	return nil
}

type NudgeCmd struct {
	Message string `arg:"" help:"Nudge text."`
}

func (c *NudgeCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	id, err := retention.NewRecorder(store, ctx.Clock).RecordNudge(uctx, c.Message)
	if err != nil {
		return fmt.Errorf("failed to record nudge: %w", err)
	}
	ctx.Printf("✓ Nudge recorded (ID: %s)\n", id)
	return nil
}

type CheckinCmd struct {
	Note string `arg:"" optional:"" help:"Optional note."`
}

func (c *CheckinCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	id, err := retention.NewRecorder(store, ctx.Clock).RecordCheckin(uctx, c.Note)
	if err != nil {
		return fmt.Errorf("failed to record check-in: %w", err)
	}
	ctx.Printf("✓ Check-in recorded (ID: %s)\n", id)
	return nil
}
