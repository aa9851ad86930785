// Package profile keeps the caller's user row and identity statements.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/momentum/internal/auth"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

// Service owns user and profile writes
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

// UserInput patches the caller's user row. Empty fields keep the stored value.
type UserInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// UpsertCurrentUser creates or updates the caller's user row
func (s *Service) UpsertCurrentUser(ctx context.Context, in UserInput) (*models.User, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}

	now := utils.ToMillis(s.clock())
	var out models.User
	err = s.store.RunInTx(ctx, func(tx storage.Provider) error {
		existing, err := tx.GetUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}

		u := models.User{UserID: userID, CreatedAt: now}
		if existing != nil {
			u = *existing
		}
		if v := strings.TrimSpace(in.Name); v != "" {
			u.Name = v
		}
		if v := strings.TrimSpace(in.Email); v != "" {
			u.Email = v
		}
		if v := strings.TrimSpace(in.ImageURL); v != "" {
			u.ImageURL = v
		}
		u.UpdatedAt = now

		out = u
		return tx.UpsertUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddIdentityStatement appends a statement to the caller's profile. The
// newest statement is what the weekly review quotes.
func (s *Service) AddIdentityStatement(ctx context.Context, statement string) (*models.Profile, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return nil, err
	}
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return nil, apperrors.Invalid("identity statement is required")
	}

	now := utils.ToMillis(s.clock())
	var out models.Profile
	err = s.store.RunInTx(ctx, func(tx storage.Provider) error {
		p, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		if p == nil {
			p = &models.Profile{UserID: userID}
		}
		p.IdentityStatements = append(p.IdentityStatements, statement)
		p.UpdatedAt = now

		if err := tx.EnsureUser(ctx, userID, now); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
		out = *p
		return tx.UpsertProfile(ctx, *p)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetProfile returns the caller's profile, or nil when absent or anonymous
func (s *Service) GetProfile(ctx context.Context) (*models.Profile, error) {
	userID, ok := auth.UserID(ctx)
	if !ok {
		return nil, nil
	}
	return s.store.GetProfile(ctx, userID)
}
