// Package momentum turns evidence logs into the weekly momentum and review
// projections.
package momentum

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/momentum/internal/auth"
	"github.com/julianstephens/momentum/internal/constants"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/logger"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

// Service records evidence and computes the derived metrics
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

// EvidenceInput is the payload of one reflection event
type EvidenceInput struct {
	OutcomeLabel string   `json:"outcome_label"`
	BlockerTags  []string `json:"blocker_tags"`
	CommitmentID *string  `json:"commitment_id,omitempty"`
	Learnings    *string  `json:"learnings,omitempty"`
	NextStep     *string  `json:"next_step,omitempty"`
}

// OutcomeWeight maps an outcome label to its completion weight
func OutcomeWeight(label string) float64 {
	switch strings.ToLower(label) {
	case constants.OutcomeYes:
		return constants.WeightYes
	case constants.OutcomePartial:
		return constants.WeightPartial
	default:
		return constants.WeightOther
	}
}

// StatusForOutcome maps an outcome label to the commitment status it implies
func StatusForOutcome(label string) string {
	switch strings.ToLower(label) {
	case constants.OutcomeYes:
		return constants.StatusCompleted
	case constants.OutcomePartial:
		return constants.StatusPartial
	default:
		return constants.StatusNotYet
	}
}

// Summarize sums outcome weights over logs
func Summarize(logs []models.EvidenceLog) models.WeeklyMomentum {
	var m models.WeeklyMomentum
	for _, l := range logs {
		m.Completed += OutcomeWeight(l.OutcomeLabel)
	}
	m.Total = len(logs)
	if m.Total > 0 {
		m.CompletionRate = m.Completed / float64(m.Total)
	}
	return m
}

// normalizeTags trims tags and drops blanks and repeats, keeping first-seen order
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// RecordEvidence stores an evidence log, bumps its barriers, applies the
// outcome to the linked commitment and refreshes the weekly completion rate.
// All writes commit together.
func (s *Service) RecordEvidence(ctx context.Context, in EvidenceInput) (string, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}

	now := utils.ToMillis(s.clock())
	tags := normalizeTags(in.BlockerTags)
	log := models.EvidenceLog{
		ID:           uuid.NewString(),
		UserID:       userID,
		CommitmentID: in.CommitmentID,
		OutcomeLabel: in.OutcomeLabel,
		BlockerTags:  tags,
		Learnings:    in.Learnings,
		NextStep:     in.NextStep,
		CreatedAt:    now,
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
		if err := tx.InsertEvidence(ctx, log); err != nil {
			return fmt.Errorf("failed to insert evidence: %w", err)
		}
		for _, tag := range tags {
			if err := tx.IncrementBarrier(ctx, userID, tag, now); err != nil {
				return fmt.Errorf("failed to record barrier %q: %w", tag, err)
			}
		}
		if in.CommitmentID != nil {
			status := StatusForOutcome(in.OutcomeLabel)
			if err := tx.SetCommitmentStatus(ctx, *in.CommitmentID, status, now); err != nil {
				return fmt.Errorf("failed to update commitment status: %w", err)
			}
		}

		logs, err := tx.ListEvidenceBetween(ctx, userID, utils.WeekStart(now), now)
		if err != nil {
			return fmt.Errorf("failed to load weekly evidence: %w", err)
		}
		rate := Summarize(logs).CompletionRate
		if err := tx.UpsertCompletionRate(ctx, userID, rate, now); err != nil {
			return fmt.Errorf("failed to update metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Debug("Recorded evidence", "user", userID, "id", log.ID, "outcome", log.OutcomeLabel, "barriers", len(tags))
	return log.ID, nil
}

// WeeklyMomentum sums the caller's evidence over the trailing seven days.
// Unauthenticated callers get the zero value.
func (s *Service) WeeklyMomentum(ctx context.Context) (models.WeeklyMomentum, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return models.WeeklyMomentum{}, nil
	}

	m, err := s.weekly(ctx, userID)
	if err != nil {
		return models.WeeklyMomentum{}, err
	}

	metrics, err := s.store.GetMetrics(ctx, userID)
	if err != nil {
		return models.WeeklyMomentum{}, fmt.Errorf("failed to load metrics: %w", err)
	}
	if metrics != nil {
		updatedAt := metrics.UpdatedAt
		m.UpdatedAt = &updatedAt
	}
	return m, nil
}

// ReviewSnapshot combines the weekly rate with the caller's top barrier,
// stored metrics and newest identity statement.
func (s *Service) ReviewSnapshot(ctx context.Context) (models.ReviewSnapshot, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return models.ReviewSnapshot{}, nil
	}

	m, err := s.weekly(ctx, userID)
	if err != nil {
		return models.ReviewSnapshot{}, err
	}
	snapshot := models.ReviewSnapshot{CompletionRate: m.CompletionRate}

	metrics, err := s.store.GetMetrics(ctx, userID)
	if err != nil {
		return models.ReviewSnapshot{}, fmt.Errorf("failed to load metrics: %w", err)
	}
	if metrics != nil {
		snapshot.PerceivedControl = metrics.PerceivedControl
		snapshot.Automaticity = metrics.Automaticity
	}

	barrier, err := s.store.TopBarrier(ctx, userID)
	if err != nil {
		return models.ReviewSnapshot{}, fmt.Errorf("failed to load top barrier: %w", err)
	}
	if barrier != nil {
		label := barrier.Label
		snapshot.BarrierLabel = &label
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return models.ReviewSnapshot{}, fmt.Errorf("failed to load profile: %w", err)
	}
	snapshot.IdentityEvidence = profile.LatestIdentityStatement()

	return snapshot, nil
}

func (s *Service) weekly(ctx context.Context, userID string) (models.WeeklyMomentum, error) {
	now := utils.ToMillis(s.clock())
	logs, err := s.store.ListEvidenceBetween(ctx, userID, utils.WeekStart(now), now)
	if err != nil {
		return models.WeeklyMomentum{}, fmt.Errorf("failed to load weekly evidence: %w", err)
	}
	return Summarize(logs), nil
}
