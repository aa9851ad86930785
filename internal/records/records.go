// Package records manages daily commitments and focus sprints.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/momentum/internal/auth"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/logger"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

// Service owns commitment and sprint writes
type Service struct {
	store storage.Provider
	clock utils.Clock
}

// NewService creates a new Service
func NewService(store storage.Provider, clock utils.Clock) *Service {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Service{store: store, clock: clock}
}

// CommitmentInput carries an upsert for one date. Nil optional fields are
// left untouched on an existing commitment.
type CommitmentInput struct {
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	DoneDefinition   *string  `json:"done_definition,omitempty"`
	EstimatedMinutes *int     `json:"estimated_minutes,omitempty"`
	Cue              *string  `json:"cue,omitempty"`
	StarterStep      *string  `json:"starter_step,omitempty"`
	FallbackStep     *string  `json:"fallback_step,omitempty"`
	ValueLink        *string  `json:"value_link,omitempty"`
	RiskLevel        *string  `json:"risk_level,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
	Status           *string  `json:"status,omitempty"`
}

// apply copies the supplied fields onto c
func (in CommitmentInput) apply(c *models.Commitment) {
	c.Title = strings.TrimSpace(in.Title)
	if in.DoneDefinition != nil {
		c.DoneDefinition = in.DoneDefinition
	}
	if in.EstimatedMinutes != nil {
		c.EstimatedMinutes = in.EstimatedMinutes
	}
	if in.Cue != nil {
		c.Cue = in.Cue
	}
	if in.StarterStep != nil {
		c.StarterStep = in.StarterStep
	}
	if in.FallbackStep != nil {
		c.FallbackStep = in.FallbackStep
	}
	if in.ValueLink != nil {
		c.ValueLink = in.ValueLink
	}
	if in.RiskLevel != nil {
		c.RiskLevel = in.RiskLevel
	}
	if in.Confidence != nil {
		c.Confidence = in.Confidence
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
}

// UpsertCommitmentForDate creates the caller's commitment for in.Date or
// patches the existing one. It returns the commitment id.
func (s *Service) UpsertCommitmentForDate(ctx context.Context, in CommitmentInput) (string, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}
	if err := utils.ValidateDateKey(in.Date); err != nil {
		return "", apperrors.Invalid("%v", err)
	}

	// A concurrent insert for the same date loses the unique index race;
	// the retry then sees the winner's row and patches it.
	for attempt := 0; ; attempt++ {
		id, err := s.upsertCommitment(ctx, userID, in)
		if errors.Is(err, storage.ErrUniqueViolation) && attempt == 0 {
			logger.Debug("Retrying commitment upsert after concurrent insert", "user", userID, "date", in.Date)
			continue
		}
		if errors.Is(err, storage.ErrUniqueViolation) {
			return "", fmt.Errorf("%w: commitment for %s was modified concurrently", apperrors.ErrConflict, in.Date)
		}
		return id, err
	}
}

func (s *Service) upsertCommitment(ctx context.Context, userID string, in CommitmentInput) (string, error) {
	now := utils.ToMillis(s.clock())
	var id string

	err := s.store.RunInTx(ctx, func(tx storage.Provider) error {
		existing, err := tx.GetCommitmentByDate(ctx, userID, in.Date)
		if err != nil {
			return fmt.Errorf("failed to load commitment: %w", err)
		}

		if existing != nil {
			in.apply(existing)
			existing.UpdatedAt = now
			if err := existing.Validate(); err != nil {
				return apperrors.Invalid("%v", err)
			}
			id = existing.ID
			return tx.UpdateCommitment(ctx, *existing)
		}

		c := models.Commitment{
			ID:           uuid.NewString(),
			UserID:       userID,
			ScheduledFor: in.Date,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		in.apply(&c)
		if err := c.Validate(); err != nil {
			return apperrors.Invalid("%v", err)
		}
		if err := tx.EnsureUser(ctx, userID, now); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
		id = c.ID
		return tx.InsertCommitment(ctx, c)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetCommitmentForDate returns the caller's commitment for date, or nil when
// there is none or the caller is anonymous.
func (s *Service) GetCommitmentForDate(ctx context.Context, date string) (*models.Commitment, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, nil
	}
	if err := utils.ValidateDateKey(date); err != nil {
		return nil, apperrors.Invalid("%v", err)
	}
	return s.store.GetCommitmentByDate(ctx, userID, date)
}

// SprintInput starts a sprint
type SprintInput struct {
	CommitmentID    *string             `json:"commitment_id,omitempty"`
	DurationMinutes *int                `json:"duration_minutes,omitempty"`
	Steps           []models.SprintStep `json:"steps,omitempty"`
}

// StartSprint records a running sprint for the caller and returns its id
func (s *Service) StartSprint(ctx context.Context, in SprintInput) (string, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}

	now := utils.ToMillis(s.clock())
	sprint := models.Sprint{
		ID:              uuid.NewString(),
		UserID:          userID,
		CommitmentID:    in.CommitmentID,
		StartedAt:       now,
		DurationMinutes: in.DurationMinutes,
		Steps:           in.Steps,
	}
	if err := sprint.Validate(); err != nil {
		return "", apperrors.Invalid("%v", err)
	}

	err = s.store.RunInTx(ctx, func(tx storage.Provider) error {
		if in.CommitmentID != nil {
			c, err := tx.GetCommitment(ctx, *in.CommitmentID)
			if err != nil {
				return fmt.Errorf("failed to load commitment: %w", err)
			}
			if c == nil || c.UserID != userID {
				return apperrors.NotFound("commitment", *in.CommitmentID)
			}
		}
		if err := tx.EnsureUser(ctx, userID, now); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
		return tx.InsertSprint(ctx, sprint)
	})
	if err != nil {
		return "", err
	}

	logger.Debug("Started sprint", "user", userID, "id", sprint.ID)
	return sprint.ID, nil
}

// EndSprint stamps the caller's running sprint as ended. Missing sprints are
// ErrNotFound, sprints owned by someone else are ErrForbidden and sprints that
// already ended are ErrConflict.
func (s *Service) EndSprint(ctx context.Context, sprintID string, outcome *string) error {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	now := utils.ToMillis(s.clock())
	return s.store.RunInTx(ctx, func(tx storage.Provider) error {
		sprint, err := tx.GetSprint(ctx, sprintID)
		if err != nil {
			return fmt.Errorf("failed to load sprint: %w", err)
		}
		if sprint == nil {
			return apperrors.NotFound("sprint", sprintID)
		}
		if sprint.UserID != userID {
			logger.Warn("Rejected sprint end by non-owner", "user", userID, "sprint", sprintID)
			return fmt.Errorf("sprint %q: %w", sprintID, apperrors.ErrForbidden)
		}
		if !sprint.IsRunning() {
			return fmt.Errorf("sprint %q already ended: %w", sprintID, apperrors.ErrConflict)
		}
		return tx.FinishSprint(ctx, sprintID, now, outcome)
	})
}

// GetSprint returns one of the caller's sprints, or nil for anonymous callers
func (s *Service) GetSprint(ctx context.Context, sprintID string) (*models.Sprint, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, nil
	}
	sprint, err := s.store.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sprint == nil || sprint.UserID != userID {
		return nil, apperrors.NotFound("sprint", sprintID)
	}
	return sprint, nil
}
