package models

import "fmt"

// SprintStep is one planned step of a focus sprint.
type SprintStep struct {
	ID              string  `json:"id"`
	Instruction     string  `json:"instruction"`
	DurationMinutes int     `json:"duration_minutes"`
	SuccessCheck    *string `json:"success_check,omitempty"`
}

// Sprint is a timed focus session. EndedAt is nil while the sprint is running.
type Sprint struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	CommitmentID    *string      `json:"commitment_id,omitempty"`
	StartedAt       int64        `json:"started_at"`
	EndedAt         *int64       `json:"ended_at,omitempty"`
	DurationMinutes *int         `json:"duration_minutes,omitempty"`
	Steps           []SprintStep `json:"steps,omitempty"`
	Outcome         *string      `json:"outcome,omitempty"`
}

// IsRunning reports whether the sprint has not been ended yet.
func (s *Sprint) IsRunning() bool {
	return s.EndedAt == nil
}

func (s *Sprint) Validate() error {
	if s.DurationMinutes != nil && *s.DurationMinutes <= 0 {
		return fmt.Errorf("sprint duration must be positive")
	}
	for i, step := range s.Steps {
		if step.ID == "" {
			return fmt.Errorf("step %d: id cannot be empty", i)
		}
		if step.Instruction == "" {
			return fmt.Errorf("step %d: instruction cannot be empty", i)
		}
		if step.DurationMinutes < 0 {
			return fmt.Errorf("step %d: duration cannot be negative", i)
		}
	}
	return nil
}
