package models

import (
	"testing"

	"github.com/julianstephens/momentum/internal/constants"
)

func TestCommitment_Validate(t *testing.T) {
	negative := -5
	tests := []struct {
		name       string
		commitment Commitment
		wantErr    bool
	}{
		{
			name: "valid commitment",
			commitment: Commitment{
				Title:        "Draft chapter 1",
				ScheduledFor: "2024-06-01",
			},
			wantErr: false,
		},
		{
			name: "valid with status",
			commitment: Commitment{
				Title:        "Run",
				ScheduledFor: "2024-06-01",
				Status:       constants.StatusPartial,
			},
			wantErr: false,
		},
		{
			name: "blank title",
			commitment: Commitment{
				Title:        "   ",
				ScheduledFor: "2024-06-01",
			},
			wantErr: true,
		},
		{
			name: "invalid date",
			commitment: Commitment{
				Title:        "Run",
				ScheduledFor: "2024/06/01",
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			commitment: Commitment{
				Title:        "Run",
				ScheduledFor: "2024-06-01",
				Status:       "done",
			},
			wantErr: true,
		},
		{
			name: "negative estimate",
			commitment: Commitment{
				Title:            "Run",
				ScheduledFor:     "2024-06-01",
				EstimatedMinutes: &negative,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.commitment.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Commitment.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSprint_Validate(t *testing.T) {
	zero := 0
	tests := []struct {
		name    string
		sprint  Sprint
		wantErr bool
	}{
		{
			name:    "no steps",
			sprint:  Sprint{},
			wantErr: false,
		},
		{
			name: "valid steps",
			sprint: Sprint{
				Steps: []SprintStep{{ID: "s1", Instruction: "Open the doc", DurationMinutes: 5}},
			},
			wantErr: false,
		},
		{
			name:    "zero duration",
			sprint:  Sprint{DurationMinutes: &zero},
			wantErr: true,
		},
		{
			name: "step missing instruction",
			sprint: Sprint{
				Steps: []SprintStep{{ID: "s1", DurationMinutes: 5}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sprint.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Sprint.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfile_LatestIdentityStatement(t *testing.T) {
	var nilProfile *Profile
	if got := nilProfile.LatestIdentityStatement(); got != nil {
		t.Errorf("expected nil for nil profile, got %q", *got)
	}

	p := &Profile{}
	if got := p.LatestIdentityStatement(); got != nil {
		t.Errorf("expected nil for empty list, got %q", *got)
	}

	p.IdentityStatements = []string{"I show up", "I finish drafts"}
	got := p.LatestIdentityStatement()
	if got == nil || *got != "I finish drafts" {
		t.Errorf("expected last statement, got %v", got)
	}
}
