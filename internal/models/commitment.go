package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/momentum/internal/constants"
)

// Commitment is a user's single declared goal for a calendar day.
// At most one exists per (UserID, ScheduledFor).
type Commitment struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	Title            string   `json:"title"`
	DoneDefinition   *string  `json:"done_definition,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	Cue              *string  `json:"cue,omitempty"`
	StarterStep      *string  `json:"starter_step,omitempty"`
	FallbackStep     *string  `json:"fallback_step,omitempty"`
	ValueLink        *string  `json:"value_link,omitempty"`
	RiskLevel        *string  `json:"risk_level,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	ScheduledFor     string   `json:"scheduled_for"` // YYYY-MM-DD
	Status           string   `json:"status,omitempty"`
	CreatedAt        int64    `json:"created_at"`
	UpdatedAt        int64    `json:"updated_at"`
}

func (c *Commitment) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("commitment title cannot be empty")
	}
	if _, err := time.Parse(constants.DateFormat, c.ScheduledFor); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if !IsValidStatus(c.Status) {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	if c.EstimatedMinutes != nil && *c.EstimatedMinutes < 0 {
		return fmt.Errorf("estimated minutes cannot be negative")
	}
	return nil
}

// IsValidStatus reports whether s is one of the known commitment statuses.
func IsValidStatus(s string) bool {
	switch s {
	case constants.StatusUnset, constants.StatusCompleted, constants.StatusPartial, constants.StatusNotYet:
		return true
	default:
		return false
	}
}
