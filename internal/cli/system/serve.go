package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/momentum/internal/api"
	"github.com/julianstephens/momentum/internal/auth"
	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/constants"
	"github.com/julianstephens/momentum/internal/lease"
	"github.com/julianstephens/momentum/internal/logger"
	"github.com/julianstephens/momentum/internal/retention"
	"github.com/julianstephens/momentum/internal/scheduler"
)

// ServeCmd runs the HTTP API and the scheduled retention purge
type ServeCmd struct {
	Addr     string `help:"Listen address (overrides MOMENTUM_HTTP_ADDR)."`
	NoPurge  bool   `help:"Do not schedule the retention purge."`
	Schedule string `help:"Purge schedule, cron spec or descriptor (overrides MOMENTUM_PURGE_SCHEDULE)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := *ctx.Config
	if c.Addr != "" {
		cfg.HTTPAddr = c.Addr
	}
	if c.Schedule != "" {
		cfg.PurgeSchedule = c.Schedule
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	store, err := ctx.Store()
	if err != nil {
		return err
	}
	defer ctx.Close()

	signer, err := auth.NewSigner(cfg.JWTSecret, ctx.Clock)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !c.NoPurge {
		var locker *lease.Locker
		if cfg.LeaseEnabled() {
			locker, err = lease.NewLocker(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("failed to set up purge lease: %w", err)
			}
			defer locker.Close()
		}

		sched := scheduler.New(locker)
		if err := sched.AddPurge(cfg.PurgeSchedule, retention.NewPurger(store, ctx.Clock)); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := sched.Stop(stopCtx); err != nil {
				logger.Warn("Scheduler did not stop cleanly", "error", err)
			}
		}()
		logger.Info("Retention purge scheduled", "schedule", cfg.PurgeSchedule, "lease", locker != nil)
	}

	router := api.NewRouter(api.NewHandler(store, ctx.Clock), signer)
	return api.Serve(sigCtx, cfg.HTTPAddr, router)
}
