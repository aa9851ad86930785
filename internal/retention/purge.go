// Package retention deletes expired nudges and check-ins and records new ones.
package retention

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/momentum/internal/constants"
	"github.com/julianstephens/momentum/internal/logger"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

// Report summarizes one purge run
type Report struct {
	UsersScanned    int           `json:"users_scanned"`
	UsersFailed     int           `json:"users_failed"`
	NudgesDeleted   int64         `json:"nudges_deleted"`
	CheckinsDeleted int64         `json:"checkins_deleted"`
	Duration        time.Duration `json:"duration"`
}

// Purger applies each user's retention windows
type Purger struct {
	store storage.Provider
	clock utils.Clock
}

// NewPurger creates a new Purger
func NewPurger(store storage.Provider, clock utils.Clock) *Purger {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Purger{store: store, clock: clock}
}

// Cutoff returns the timestamp before which records older than days expire
func Cutoff(nowMs int64, days int) int64 {
	return utils.Cutoff(nowMs, days)
}

// NotificationRetentionDays returns the user's notifications retention, or
// the default when the source has no row.
func NotificationRetentionDays(ctx context.Context, store storage.Provider, userID string) (int, error) {
	ds, err := store.GetDataSource(ctx, userID, constants.SourceNotifications)
	if err != nil {
		return 0, err
	}
	if ds == nil || ds.RetentionDays < 1 {
		return constants.DefaultNotificationRetentionDays, nil
	}
	return ds.RetentionDays, nil
}

// Purge deletes, for every user, nudges older than the notifications
// retention window and check-ins older than the fixed check-in window.
// A failing user is logged and skipped; the joined errors are returned with
// the report. Repeated runs are safe.
func (p *Purger) Purge(ctx context.Context) (Report, error) {
	start := p.clock()
	now := utils.ToMillis(start)
	var report Report

	userIDs, err := p.store.ListUserIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list users: %w", err)
	}

	checkinCutoff := Cutoff(now, constants.DefaultCheckinRetentionDays)
	var errs []error
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report.UsersScanned++

		nudges, checkins, err := p.purgeUser(ctx, userID, now, checkinCutoff)
		report.NudgesDeleted += nudges
		report.CheckinsDeleted += checkins
		if err != nil {
			report.UsersFailed++
			logger.Warn("Retention purge failed for user", "user", userID, "error", err)
			errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
		}
	}

	report.Duration = p.clock().Sub(start)
	logger.Info("Retention purge finished",
		"users", report.UsersScanned,
		"failed", report.UsersFailed,
		"nudges", report.NudgesDeleted,
		"checkins", report.CheckinsDeleted)
	return report, errors.Join(errs...)
}

// purgeUser runs both deletes for one user. The check-in delete still runs
// when the nudge side fails.
func (p *Purger) purgeUser(ctx context.Context, userID string, now, checkinCutoff int64) (int64, int64, error) {
	var nudges int64
	var errs []error

	days, err := NotificationRetentionDays(ctx, p.store, userID)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to read notifications retention: %w", err))
	} else {
		nudges, err = p.store.DeleteNudgesBefore(ctx, userID, Cutoff(now, days))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to delete nudges: %w", err))
		}
	}

	checkins, err := p.store.DeleteCheckinsBefore(ctx, userID, checkinCutoff)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to delete check-ins: %w", err))
	}

	return nudges, checkins, errors.Join(errs...)
}
