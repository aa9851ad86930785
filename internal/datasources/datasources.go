// Package datasources manages per-user data collection toggles and their
// retention windows.
package datasources

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

// Default is the setting a source starts with
type Default struct {
	Source        string
	Enabled       bool
	RetentionDays int
	Scopes        []string
}

// Defaults lists the built-in sources in the order they are initialized
var Defaults = []Default{
	{Source: constants.SourceCalendar, Enabled: true, RetentionDays: 30, Scopes: []string{"read:events"}},
	{Source: constants.SourceLocation, Enabled: false, RetentionDays: 7, Scopes: []string{"whenInUse"}},
	{Source: constants.SourceNotifications, Enabled: true, RetentionDays: constants.DefaultNotificationRetentionDays, Scopes: []string{"alerts"}},
	{Source: constants.SourceHealth, Enabled: false, RetentionDays: 30, Scopes: []string{"activity"}},
}

// DefaultFor returns the built-in default for source. Unknown sources start
// disabled with no scopes.
func DefaultFor(source string) Default {
	for _, d := range Defaults {
		if d.Source == source {
			return Default{
				Source:        d.Source,
				Enabled:       d.Enabled,
				RetentionDays: d.RetentionDays,
				Scopes:        append([]string(nil), d.Scopes...),
			}
		}
	}
	return Default{Source: source, RetentionDays: constants.DefaultUnknownSourceRetention, Scopes: []string{}}
}

// Service reads and writes data source settings
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

// UpdateInput patches one source. Nil fields are left unchanged, or take the
// default when the row is created.
type UpdateInput struct {
	Source        string    `json:"source"`
	Enabled       *bool     `json:"enabled,omitempty"`
	RetentionDays *int      `json:"retention_days,omitempty"`
	Scopes        *[]string `json:"scopes,omitempty"`
}

// List returns the caller's settings sorted by source. Anonymous callers get
// an empty list.
func (s *Service) List(ctx context.Context) ([]models.DataSource, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return []models.DataSource{}, nil
	}
	return s.store.ListDataSources(ctx, userID)
}

// Initialize creates every missing default source for the caller and
// returns how many rows were added.
func (s *Service) Initialize(ctx context.Context) (int, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return 0, err
	}

	now := utils.ToMillis(s.clock())
	created := 0
	err = s.store.RunInTx(ctx, func(tx storage.Provider) error {
		created = 0
		if err := tx.EnsureUser(ctx, userID, now); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
		for _, d := range Defaults {
			inserted, err := tx.InsertDataSourceIfMissing(ctx, models.DataSource{
				ID:            uuid.NewString(),
				UserID:        userID,
				Source:        d.Source,
				Enabled:       d.Enabled,
				RetentionDays: d.RetentionDays,
				Scopes:        d.Scopes,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize %s: %w", d.Source, err)
			}
			if inserted {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		logger.Info("Initialized data sources", "user", userID, "created", created)
	}
	return created, nil
}

// Update creates the source from its defaults or patches the supplied fields
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return err
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		return apperrors.Invalid("source is required")
	}
	if in.RetentionDays != nil && *in.RetentionDays < 1 {
		return apperrors.Invalid("retention days must be at least 1, got %d", *in.RetentionDays)
	}

	now := utils.ToMillis(s.clock())
	return s.store.RunInTx(ctx, func(tx storage.Provider) error {
		existing, err := tx.GetDataSource(ctx, userID, source)
		if err != nil {
			return fmt.Errorf("failed to load data source: %w", err)
		}

		if existing == nil {
			d := DefaultFor(source)
			ds := models.DataSource{
				ID:            uuid.NewString(),
				UserID:        userID,
				Source:        source,
				Enabled:       d.Enabled,
				RetentionDays: d.RetentionDays,
				Scopes:        d.Scopes,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			applyUpdate(&ds, in)
			if err := tx.EnsureUser(ctx, userID, now); err != nil {
				return fmt.Errorf("failed to register user: %w", err)
			}
			if _, err := tx.InsertDataSourceIfMissing(ctx, ds); err != nil {
				return fmt.Errorf("failed to create data source: %w", err)
			}
			return nil
		}

		applyUpdate(existing, in)
		existing.UpdatedAt = now
		return tx.UpdateDataSource(ctx, *existing)
	})
}

func applyUpdate(ds *models.DataSource, in UpdateInput) {
	if in.Enabled != nil {
		ds.Enabled = *in.Enabled
	}
	if in.RetentionDays != nil {
		ds.RetentionDays = *in.RetentionDays
	}
	if in.Scopes != nil {
		ds.Scopes = append([]string{}, (*in.Scopes)...)
	}
}
