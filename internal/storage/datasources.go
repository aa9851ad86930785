package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/momentum/internal/models"
)

const dataSourceColumns = `id, user_id, source, enabled, retention_days, scopes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataSource(row rowScanner) (*models.DataSource, error) {
	var ds models.DataSource
	var scopes string
	if err := row.Scan(&ds.ID, &ds.UserID, &ds.Source, &ds.Enabled, &ds.RetentionDays,
		&scopes, &ds.CreatedAt, &ds.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if ds.Scopes, err = decodeJSON[string](scopes); err != nil {
		return nil, fmt.Errorf("data source %s: failed to decode scopes: %w", ds.ID, err)
	}
	return &ds, nil
}

func (s *SQLStore) GetDataSource(ctx context.Context, userID, source string) (*models.DataSource, error) {
	ds, err := scanDataSource(s.queryRow(ctx,
		`SELECT `+dataSourceColumns+` FROM data_sources WHERE user_id = ? AND source = ?`,
		userID, source))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ds, err
}

// ListDataSources returns the user's rows sorted by source name
func (s *SQLStore) ListDataSources(ctx context.Context, userID string) ([]models.DataSource, error) {
	rows, err := s.query(ctx,
		`SELECT `+dataSourceColumns+` FROM data_sources WHERE user_id = ? ORDER BY source`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := []models.DataSource{}
	for rows.Next() {
		ds, err := scanDataSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *ds)
	}
	return sources, rows.Err()
}

func (s *SQLStore) InsertDataSourceIfMissing(ctx context.Context, ds models.DataSource) (bool, error) {
	scopes, err := encodeJSON(ds.Scopes)
	if err != nil {
		return false, fmt.Errorf("failed to encode scopes: %w", err)
	}
	res, err := s.exec(ctx, `
		INSERT INTO data_sources (`+dataSourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, source) DO NOTHING`,
		ds.ID, ds.UserID, ds.Source, ds.Enabled, ds.RetentionDays, scopes, ds.CreatedAt, ds.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) UpdateDataSource(ctx context.Context, ds models.DataSource) error {
	scopes, err := encodeJSON(ds.Scopes)
	if err != nil {
		return fmt.Errorf("failed to encode scopes: %w", err)
	}
	res, err := s.exec(ctx, `
		UPDATE data_sources SET enabled = ?, retention_days = ?, scopes = ?, updated_at = ?
		WHERE id = ?`,
		ds.Enabled, ds.RetentionDays, scopes, ds.UpdatedAt, ds.ID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
