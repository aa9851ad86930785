package models

// EvidenceLog is one append-only reflection event.
type EvidenceLog struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	CommitmentID *string  `json:"commitment_id,omitempty"`
	OutcomeLabel string   `json:"outcome_label"`
	BlockerTags  []string `json:"blocker_tags"`
	Learnings    *string  `json:"learnings,omitempty"`
	NextStep     *string  `json:"next_step,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// Barrier is a running tally of one blocker label for a user.
type Barrier struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Label      string `json:"label"`
	Frequency  int    `json:"frequency"`
	LastSeenAt int64  `json:"last_seen_at"`
}

// Metrics holds derived rolling statistics, one row per user.
type Metrics struct {
	UserID              string   `json:"user_id"`
	CompletionRateTrend float64  `json:"completion_rate_trend"`
	PerceivedControl    *float64 `json:"perceived_control,omitempty"`
	Automaticity        *float64 `json:"automaticity,omitempty"`
	UpdatedAt           int64    `json:"updated_at"`
}

// WeeklyMomentum is the trailing seven day completion projection.
type WeeklyMomentum struct {
	Completed      float64 `json:"completed"`
	Total          int     `json:"total"`
	CompletionRate float64 `json:"completion_rate"`
	UpdatedAt      *int64  `json:"updated_at,omitempty"`
}

// ReviewSnapshot is the weekly review projection.
type ReviewSnapshot struct {
	CompletionRate   float64  `json:"completion_rate"`
	PerceivedControl *float64 `json:"perceived_control"`
	Automaticity     *float64 `json:"automaticity"`
	BarrierLabel     *string  `json:"barrier_label"`
	IdentityEvidence *string  `json:"identity_evidence"`
}
