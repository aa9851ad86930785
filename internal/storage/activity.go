package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/momentum/internal/models"
)

func (s *SQLStore) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	var statements string
	err := s.queryRow(ctx, `
		SELECT user_id, identity_statements, updated_at
		FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &statements, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if p.IdentityStatements, err = decodeJSON[string](statements); err != nil {
		return nil, fmt.Errorf("profile %s: failed to decode identity statements: %w", userID, err)
	}
	return &p, nil
}

func (s *SQLStore) UpsertProfile(ctx context.Context, p models.Profile) error {
	statements, err := encodeJSON(p.IdentityStatements)
	if err != nil {
		return fmt.Errorf("failed to encode identity statements: %w", err)
	}
	_, err = s.exec(ctx, `
		INSERT INTO profiles (user_id, identity_statements, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			identity_statements = excluded.identity_statements,
			updated_at = excluded.updated_at`,
		p.UserID, statements, p.UpdatedAt)
	return err
}

func (s *SQLStore) InsertNudge(ctx context.Context, n models.Nudge) error {
	_, err := s.exec(ctx,
		`INSERT INTO nudges (id, user_id, message, created_at) VALUES (?, ?, ?, ?)`,
		n.ID, n.UserID, n.Message, n.CreatedAt)
	return err
}

func (s *SQLStore) InsertCheckin(ctx context.Context, c models.Checkin) error {
	_, err := s.exec(ctx,
		`INSERT INTO checkins (id, user_id, note, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.UserID, c.Note, c.CreatedAt)
	return err
}

func (s *SQLStore) DeleteNudgesBefore(ctx context.Context, userID string, cutoff int64) (int64, error) {
	return s.deleteBefore(ctx, "nudges", userID, cutoff)
}

func (s *SQLStore) DeleteCheckinsBefore(ctx context.Context, userID string, cutoff int64) (int64, error) {
	return s.deleteBefore(ctx, "checkins", userID, cutoff)
}

// deleteBefore removes rows strictly older than cutoff. table is never user input.
func (s *SQLStore) deleteBefore(ctx context.Context, table, userID string, cutoff int64) (int64, error) {
	res, err := s.exec(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND created_at < ?`, userID, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
