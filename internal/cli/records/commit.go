package records

import (
	"fmt"
	"strings"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/constants"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/records"
	"github.com/julianstephens/momentum/internal/utils"
)

// today returns the current date key in the configured timezone
func today(ctx *cli.Context) (string, error) {
	return utils.TodayInTimezone(ctx.Clock(), ctx.Config.Timezone)
}

type CommitSetCmd struct {
	Date       string   `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
	Title      string   `help:"What you commit to." required:""`
	Done       *string  `help:"Definition of done."`
	Minutes    *int     `help:"Estimated minutes."`
	Cue        *string  `help:"Cue that triggers the work."`
	Starter    *string  `help:"Smallest first step."`
	Fallback   *string  `help:"Fallback step for a bad day."`
	Value      *string  `help:"Value this commitment serves."`
	Risk       *string  `help:"Risk level."`
	Confidence *float64 `help:"Confidence from 0 to 1."`
	Status     *string  `help:"Status: completed, partial or not_yet."`
}

func (c *CommitSetCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		if date, err = today(ctx); err != nil {
			return err
		}
	}

	id, err := records.NewService(store, ctx.Clock).UpsertCommitmentForDate(uctx, records.CommitmentInput{
		Date:             date,
		Title:            c.Title,
		DoneDefinition:   c.Done,
		EstimatedMinutes: c.Minutes,
		Cue:              c.Cue,
		StarterStep:      c.Starter,
		FallbackStep:     c.Fallback,
		ValueLink:        c.Value,
		RiskLevel:        c.Risk,
		Confidence:       c.Confidence,
		Status:           c.Status,
	})
	if err != nil {
		return fmt.Errorf("failed to save commitment: %w", err)
	}

	ctx.Printf("✓ Commitment for %s saved (ID: %s)\n", date, id)
	return nil
}

type CommitShowCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *CommitShowCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	date := c.Date
	if date == "" {
		if date, err = today(ctx); err != nil {
			return err
		}
	}

	commitment, err := records.NewService(store, ctx.Clock).GetCommitmentForDate(uctx, date)
	if err != nil {
		return err
	}
	if commitment == nil {
		ctx.Printf("No commitment for %s.\n", date)
		return nil
	}

	printCommitment(ctx, commitment)
	return nil
}

func printCommitment(ctx *cli.Context, c *models.Commitment) {
	ctx.Printf("%s  %s\n", c.ScheduledFor, c.Title)
	status := c.Status
	if status == constants.StatusUnset {
		status = "open"
	}
	ctx.Printf("  Status:     %s\n", strings.ReplaceAll(status, "_", " "))

	optional := []struct {
		label string
		value *string
	}{
		{"Done when", c.DoneDefinition},
		{"Cue", c.Cue},
		{"Starter", c.StarterStep},
		{"Fallback", c.FallbackStep},
		{"Value", c.ValueLink},
		{"Risk", c.RiskLevel},
	}
	for _, f := range optional {
		if f.value != nil && *f.value != "" {
			ctx.Printf("  %-11s %s\n", f.label+":", *f.value)
		}
	}
	if c.EstimatedMinutes != nil {
		ctx.Printf("  Estimate:   %d min\n", *c.EstimatedMinutes)
	}
	if c.Confidence != nil {
		ctx.Printf("  Confidence: %.0f%%\n", *c.Confidence*100)
	}
	ctx.Printf("  ID:         %s\n", c.ID)
}
