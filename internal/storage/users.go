package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/julianstephens/momentum/internal/models"
)

var _ Provider = (*SQLStore)(nil)

// UpsertUser inserts the user or overwrites name, email, image and UpdatedAt.
// CreatedAt is kept from the first insert.
func (s *SQLStore) UpsertUser(ctx context.Context, user models.User) error {
	_, err := s.exec(ctx, `
		INSERT INTO users (user_id, name, email, image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at`,
		user.UserID, user.Name, user.Email, user.ImageURL, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *SQLStore) EnsureUser(ctx context.Context, userID string, now int64) error {
	_, err := s.exec(ctx, `
		INSERT INTO users (user_id, created_at, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		userID, now, now)
	return err
}

func (s *SQLStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	err := s.queryRow(ctx, `
		SELECT user_id, name, email, image_url, created_at, updated_at
		FROM users WHERE user_id = ?`, userID).
		Scan(&u.UserID, &u.Name, &u.Email, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUserIDs returns every known user id in ascending order
func (s *SQLStore) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.query(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
