package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/momentum/internal/models"
)

func (s *SQLStore) InsertSprint(ctx context.Context, sprint models.Sprint) error {
	steps, err := encodeJSON(sprint.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode sprint steps: %w", err)
	}
	_, err = s.exec(ctx, `
		INSERT INTO sprints (id, user_id, commitment_id, started_at, ended_at, duration_minutes, steps, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sprint.ID, sprint.UserID, nullString(sprint.CommitmentID), sprint.StartedAt,
		nullInt64(sprint.EndedAt), nullInt(sprint.DurationMinutes), steps, nullString(sprint.Outcome))
	return err
}

func (s *SQLStore) GetSprint(ctx context.Context, id string) (*models.Sprint, error) {
	var sp models.Sprint
	var commitmentID, outcome sql.NullString
	var endedAt, duration sql.NullInt64
	var steps string
	err := s.queryRow(ctx, `
		SELECT id, user_id, commitment_id, started_at, ended_at, duration_minutes, steps, outcome
		FROM sprints WHERE id = ?`, id).
		Scan(&sp.ID, &sp.UserID, &commitmentID, &sp.StartedAt, &endedAt, &duration, &steps, &outcome)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if sp.Steps, err = decodeJSON[models.SprintStep](steps); err != nil {
		return nil, fmt.Errorf("sprint %s: failed to decode steps: %w", id, err)
	}
	sp.CommitmentID = stringPtr(commitmentID)
	sp.EndedAt = int64Ptr(endedAt)
	sp.DurationMinutes = intPtr(duration)
	sp.Outcome = stringPtr(outcome)
	return &sp, nil
}

// FinishSprint sets EndedAt and, when given, the outcome. A nil outcome keeps
// the stored value.
func (s *SQLStore) FinishSprint(ctx context.Context, id string, endedAt int64, outcome *string) error {
	res, err := s.exec(ctx, `
		UPDATE sprints SET ended_at = ?, outcome = COALESCE(?, outcome)
		WHERE id = ?`, endedAt, nullString(outcome), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
