package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/julianstephens/momentum/internal/models"
)

const commitmentColumns = `id, user_id, title, done_definition, estimated_minutes, cue,
	starter_step, fallback_step, value_link, risk_level, confidence, scheduled_for,
	status, created_at, updated_at`

func scanCommitment(row *sql.Row) (*models.Commitment, error) {
	var c models.Commitment
	var doneDef, cue, starter, fallback, value, risk sql.NullString
	var minutes sql.NullInt64
	var confidence sql.NullFloat64
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &doneDef, &minutes, &cue, &starter,
		&fallback, &value, &risk, &confidence, &c.ScheduledFor, &c.Status,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.DoneDefinition = stringPtr(doneDef)
	c.EstimatedMinutes = intPtr(minutes)
	c.Cue = stringPtr(cue)
	c.StarterStep = stringPtr(starter)
	c.FallbackStep = stringPtr(fallback)
	c.ValueLink = stringPtr(value)
	c.RiskLevel = stringPtr(risk)
	c.Confidence = floatPtr(confidence)
	return &c, nil
}

func (s *SQLStore) GetCommitment(ctx context.Context, id string) (*models.Commitment, error) {
	return scanCommitment(s.queryRow(ctx,
		`SELECT `+commitmentColumns+` FROM commitments WHERE id = ?`, id))
}

func (s *SQLStore) GetCommitmentByDate(ctx context.Context, userID, date string) (*models.Commitment, error) {
	return scanCommitment(s.queryRow(ctx,
		`SELECT `+commitmentColumns+` FROM commitments WHERE user_id = ? AND scheduled_for = ?`,
		userID, date))
}

func (s *SQLStore) InsertCommitment(ctx context.Context, c models.Commitment) error {
	_, err := s.exec(ctx, `
		INSERT INTO commitments (`+commitmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, nullString(c.DoneDefinition), nullInt(c.EstimatedMinutes),
		nullString(c.Cue), nullString(c.StarterStep), nullString(c.FallbackStep),
		nullString(c.ValueLink), nullString(c.RiskLevel), nullFloat(c.Confidence),
		c.ScheduledFor, c.Status, c.CreatedAt, c.UpdatedAt)
	return err
}

// UpdateCommitment overwrites every mutable column of an existing commitment
func (s *SQLStore) UpdateCommitment(ctx context.Context, c models.Commitment) error {
	res, err := s.exec(ctx, `
		UPDATE commitments SET
			title = ?, done_definition = ?, estimated_minutes = ?, cue = ?,
			starter_step = ?, fallback_step = ?, value_link = ?, risk_level = ?,
			confidence = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		c.Title, nullString(c.DoneDefinition), nullInt(c.EstimatedMinutes), nullString(c.Cue),
		nullString(c.StarterStep), nullString(c.FallbackStep), nullString(c.ValueLink),
		nullString(c.RiskLevel), nullFloat(c.Confidence), c.Status, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (s *SQLStore) SetCommitmentStatus(ctx context.Context, id, status string, updatedAt int64) error {
	res, err := s.exec(ctx,
		`UPDATE commitments SET status = ?, updated_at = ? WHERE id = ?`,
		status, updatedAt, id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
