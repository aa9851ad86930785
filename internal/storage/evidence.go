package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/julianstephens/momentum/internal/models"
)

func (s *SQLStore) InsertEvidence(ctx context.Context, log models.EvidenceLog) error {
	tags, err := encodeJSON(log.BlockerTags)
	if err != nil {
		return fmt.Errorf("failed to encode blocker tags: %w", err)
	}
	_, err = s.exec(ctx, `
		INSERT INTO evidence_logs (id, user_id, commitment_id, outcome_label, blocker_tags, learnings, next_step, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, nullString(log.CommitmentID), log.OutcomeLabel, tags,
		nullString(log.Learnings), nullString(log.NextStep), log.CreatedAt)
	return err
}

func (s *SQLStore) ListEvidenceBetween(ctx context.Context, userID string, from, to int64) ([]models.EvidenceLog, error) {
	rows, err := s.query(ctx, `
		SELECT id, user_id, commitment_id, outcome_label, blocker_tags, learnings, next_step, created_at
		FROM evidence_logs
		WHERE user_id = ? AND created_at >= ? AND created_at <= ?
		ORDER BY created_at, id`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.EvidenceLog
	for rows.Next() {
		var l models.EvidenceLog
		var commitmentID, learnings, nextStep sql.NullString
		var tags string
		if err := rows.Scan(&l.ID, &l.UserID, &commitmentID, &l.OutcomeLabel, &tags,
			&learnings, &nextStep, &l.CreatedAt); err != nil {
			return nil, err
		}
		if l.BlockerTags, err = decodeJSON[string](tags); err != nil {
			return nil, fmt.Errorf("evidence %s: failed to decode blocker tags: %w", l.ID, err)
		}
		l.CommitmentID = stringPtr(commitmentID)
		l.Learnings = stringPtr(learnings)
		l.NextStep = stringPtr(nextStep)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLStore) IncrementBarrier(ctx context.Context, userID, label string, seenAt int64) error {
	_, err := s.exec(ctx, `
		INSERT INTO barriers (id, user_id, label, frequency, last_seen_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (user_id, label) DO UPDATE SET
			frequency = barriers.frequency + 1,
			last_seen_at = excluded.last_seen_at`,
		uuid.NewString(), userID, label, seenAt)
	return err
}

func (s *SQLStore) GetBarrier(ctx context.Context, userID, label string) (*models.Barrier, error) {
	return scanBarrier(s.queryRow(ctx, `
		SELECT id, user_id, label, frequency, last_seen_at
		FROM barriers WHERE user_id = ? AND label = ?`, userID, label))
}

func (s *SQLStore) TopBarrier(ctx context.Context, userID string) (*models.Barrier, error) {
	return scanBarrier(s.queryRow(ctx, `
		SELECT id, user_id, label, frequency, last_seen_at
		FROM barriers WHERE user_id = ?
		ORDER BY frequency DESC, last_seen_at DESC, label ASC
		LIMIT 1`, userID))
}

func scanBarrier(row *sql.Row) (*models.Barrier, error) {
	var b models.Barrier
	err := row.Scan(&b.ID, &b.UserID, &b.Label, &b.Frequency, &b.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLStore) GetMetrics(ctx context.Context, userID string) (*models.Metrics, error) {
	var m models.Metrics
	var control, automaticity sql.NullFloat64
	err := s.queryRow(ctx, `
		SELECT user_id, completion_rate_trend, perceived_control, automaticity, updated_at
		FROM metrics WHERE user_id = ?`, userID).
		Scan(&m.UserID, &m.CompletionRateTrend, &control, &automaticity, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.PerceivedControl = floatPtr(control)
	m.Automaticity = floatPtr(automaticity)
	return &m, nil
}

func (s *SQLStore) UpsertCompletionRate(ctx context.Context, userID string, rate float64, updatedAt int64) error {
	_, err := s.exec(ctx, `
		INSERT INTO metrics (user_id, completion_rate_trend, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			completion_rate_trend = excluded.completion_rate_trend,
			updated_at = excluded.updated_at`,
		userID, rate, updatedAt)
	return err
}
