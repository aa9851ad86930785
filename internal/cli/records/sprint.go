package records

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/records"
	"github.com/julianstephens/momentum/internal/utils"
)

type SprintStartCmd struct {
	Commitment *string  `help:"Commitment ID the sprint works on."`
	Minutes    *int     `help:"Planned duration in minutes."`
	Step       []string `help:"Planned step as 'instruction' or 'instruction=minutes'. Repeat for several."`
}

// parseStep reads "instruction=minutes"; a suffix that is not a number is
// kept as part of the instruction.
func parseStep(i int, raw string) models.SprintStep {
	step := models.SprintStep{ID: fmt.Sprintf("step-%d", i+1), Instruction: strings.TrimSpace(raw)}
	if idx := strings.LastIndex(raw, "="); idx != -1 {
		if minutes, err := strconv.Atoi(strings.TrimSpace(raw[idx+1:])); err == nil {
			step.Instruction = strings.TrimSpace(raw[:idx])
			step.DurationMinutes = minutes
		}
	}
	return step
}

func (c *SprintStartCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	steps := make([]models.SprintStep, 0, len(c.Step))
	for i, raw := range c.Step {
		steps = append(steps, parseStep(i, raw))
	}

	id, err := records.NewService(store, ctx.Clock).StartSprint(uctx, records.SprintInput{
		CommitmentID:    c.Commitment,
		DurationMinutes: c.Minutes,
		Steps:           steps,
	})
	if err != nil {
		return fmt.Errorf("failed to start sprint: %w", err)
	}

	ctx.Printf("✓ Sprint started (ID: %s)\n", id)
	return nil
}

type SprintEndCmd struct {
	ID      string  `arg:"" help:"Sprint ID."`
	Outcome *string `help:"How the sprint went."`
}

func (c *SprintEndCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	if err := records.NewService(store, ctx.Clock).EndSprint(uctx, c.ID, c.Outcome); err != nil {
		return fmt.Errorf("failed to end sprint: %w", err)
	}

	ctx.Printf("✓ Sprint %s ended\n", c.ID)
	return nil
}

type SprintShowCmd struct {
	ID string `arg:"" help:"Sprint ID."`
}

func (c *SprintShowCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	sprint, err := records.NewService(store, ctx.Clock).GetSprint(uctx, c.ID)
	if err != nil {
		return err
	}

	started := utils.FromMillis(sprint.StartedAt)
	ctx.Printf("Sprint %s\n", sprint.ID)
	ctx.Printf("  Started:  %s\n", started.Local().Format(time.DateTime))
	if sprint.EndedAt != nil {
		ended := utils.FromMillis(*sprint.EndedAt)
		ctx.Printf("  Ended:    %s (%s)\n", ended.Local().Format(time.DateTime), ended.Sub(started).Round(time.Second))
	} else {
		ctx.Printf("  Running:  %s\n", ctx.Clock().Sub(started).Round(time.Second))
	}
	if sprint.DurationMinutes != nil {
		ctx.Printf("  Planned:  %d min\n", *sprint.DurationMinutes)
	}
	if sprint.Outcome != nil {
		ctx.Printf("  Outcome:  %s\n", *sprint.Outcome)
	}
	for _, step := range sprint.Steps {
		if step.DurationMinutes > 0 {
			ctx.Printf("  - %s (%d min)\n", step.Instruction, step.DurationMinutes)
		} else {
			ctx.Printf("  - %s\n", step.Instruction)
		}
	}
	return nil
}
