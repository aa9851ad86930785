package records

import (
	"fmt"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/momentum"
	"github.com/julianstephens/momentum/internal/records"
)

// EvidenceLogCmd records how a commitment went
type EvidenceLogCmd struct {
	Outcome    string   `arg:"" help:"Outcome: yes, partial or no."`
	Blocker    []string `help:"Blocker tag. Repeat for several."`
	Commitment *string  `help:"Commitment ID to update."`
	Today      bool     `help:"Link today's commitment."`
	Learnings  *string  `help:"What you learned."`
	Next       *string  `help:"Next step."`
}

func (c *EvidenceLogCmd) Run(ctx *cli.Context) error {
	uctx, err := ctx.UserContext()
	if err != nil {
		return err
	}
	store, err := ctx.Store()
	if err != nil {
		return err
	}

	commitmentID := c.Commitment
	if c.Today && commitmentID == nil {
		date, err := today(ctx)
		if err != nil {
			return err
		}
		commitment, err := records.NewService(store, ctx.Clock).GetCommitmentForDate(uctx, date)
		if err != nil {
			return err
		}
		if commitment == nil {
			return fmt.Errorf("no commitment for %s to link", date)
		}
		commitmentID = &commitment.ID
	}

	svc := momentum.NewService(store, ctx.Clock)
	id, err := svc.RecordEvidence(uctx, momentum.EvidenceInput{
		OutcomeLabel: c.Outcome,
		BlockerTags:  c.Blocker,
		CommitmentID: commitmentID,
		Learnings:    c.Learnings,
		NextStep:     c.Next,
	})
	if err != nil {
		return fmt.Errorf("failed to log evidence: %w", err)
	}

	ctx.Printf("✓ Evidence logged (ID: %s)\n", id)
	if commitmentID != nil {
		ctx.Printf("  Commitment marked %s\n", momentum.StatusForOutcome(c.Outcome))
	}
	return nil
}
