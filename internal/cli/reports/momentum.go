package reports

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/momentum"
	"github.com/julianstephens/momentum/internal/utils"
)

// MomentumCmd shows the trailing seven day completion rate
type MomentumCmd struct {
	JSON bool `help:"Print JSON instead of a styled report."`
}

func (c *MomentumCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	wm, err := momentum.NewService(store, ctx.Clock).WeeklyMomentum(uctx)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(ctx, wm)
	}

	ctx.Println(renderMomentum(wm))
	return nil
}

func renderMomentum(wm models.WeeklyMomentum) string {
	if wm.Total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Weekly momentum"),
			mutedStyle.Render("No evidence logged in the last 7 days."),
		)
	}

	lines := []string{
		titleStyle.Render("Weekly momentum"),
		"",
		row("Completion", fmt.Sprintf("%s %3.0f%%", bar(wm.CompletionRate), wm.CompletionRate*100)),
		row("Completed", fmt.Sprintf("%g of %d", wm.Completed, wm.Total)),
	}
	if wm.UpdatedAt != nil {
		lines = append(lines, mutedStyle.Render("Updated "+utils.FromMillis(*wm.UpdatedAt).Local().Format(time.DateTime)))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
