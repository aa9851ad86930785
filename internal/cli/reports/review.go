package reports

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/momentum"
)

// ReviewCmd shows the weekly review snapshot
type ReviewCmd struct {
	JSON bool `help:"Print JSON instead of a styled report."`
}

func (c *ReviewCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	snap, err := momentum.NewService(store, ctx.Clock).ReviewSnapshot(uctx)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(ctx, snap)
	}

	ctx.Println(renderReview(snap))
	return nil
}

func renderReview(snap models.ReviewSnapshot) string {
	optionalRatio := func(v *float64) string {
		if v == nil {
			return mutedStyle.Render("not measured")
		}
		return fmt.Sprintf("%s %3.0f%%", bar(*v), *v*100)
	}
	optionalText := func(v *string, empty string) string {
		if v == nil || *v == "" {
			return mutedStyle.Render(empty)
		}
		return *v
	}

	lines := []string{
		titleStyle.Render("Weekly review"),
		"",
		row("Completion", fmt.Sprintf("%s %3.0f%%", bar(snap.CompletionRate), snap.CompletionRate*100)),
		row("Perceived control", optionalRatio(snap.PerceivedControl)),
		row("Automaticity", optionalRatio(snap.Automaticity)),
		row("Top barrier", optionalText(snap.BarrierLabel, "none recorded")),
		row("Identity", optionalText(snap.IdentityEvidence, "no statement yet")),
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func writeJSON(ctx *cli.Context, v interface{}) error {
	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
