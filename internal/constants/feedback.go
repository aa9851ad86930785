package constants

const (
	// Canonical outcome labels; matching is case-insensitive
	OutcomeYes     = "yes"
	OutcomePartial = "partial"

	// Outcome weights used in completion-rate arithmetic
	WeightYes     = 1.0
	WeightPartial = 0.5
	WeightOther   = 0.0
)
