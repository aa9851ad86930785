package retention

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/momentum/internal/auth"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

// Recorder appends the records the purge later expires
type Recorder struct {
	store storage.Provider
	clock utils.Clock
}

// NewRecorder creates a new Recorder
func NewRecorder(store storage.Provider, clock utils.Clock) *Recorder {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Recorder{store: store, clock: clock}
}

// RecordNudge stores a nudge for the caller and returns its id
func (r *Recorder) RecordNudge(ctx context.Context, message string) (string, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperrors.Invalid("nudge message is required")
	}

	now := utils.ToMillis(r.clock())
	n := models.Nudge{ID: uuid.NewString(), UserID: userID, Message: message, CreatedAt: now}
	err = r.store.RunInTx(ctx, func(tx storage.Provider) error {
		if err := tx.EnsureUser(ctx, userID, now); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
		return tx.InsertNudge(ctx, n)
	})
	if err != nil {
		return "", err
	}
	return n.ID, nil
}

// RecordCheckin stores a check-in for the caller and returns its id
func (r *Recorder) RecordCheckin(ctx context.Context, note string) (string, error) {
	userID, err := auth.RequireUserID(ctx)
	if err != nil {
		return "", err
	}

	now := utils.ToMillis(r.clock())
	c := models.Checkin{ID: uuid.NewString(), UserID: userID, Note: strings.TrimSpace(note), CreatedAt: now}
	err = r.store.RunInTx(ctx, func(tx storage.Provider) error {
		if err := tx.EnsureUser(ctx, userID, now); err != nil {
			return fmt.Errorf("failed to register user: %w", err)
		}
		return tx.InsertCheckin(ctx, c)
	})
	if err != nil {
		return "", err
	}
	return c.ID, nil
}
