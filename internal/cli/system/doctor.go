package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/keyring"
	"github.com/julianstephens/momentum/internal/lease"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	report := func(name string, err error) {
		if err != nil {
			ctx.Printf("❌ %s: FAIL\n", name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			return
		}
		ctx.Printf("✓ %s: OK\n", name)
	}

	dbErr := checkDBReachable(ctx)
	report("Database reachable", dbErr)
	if dbErr == nil {
		report("Schema version", checkSchemaVersion(ctx))
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
	}

	report("Purge schedule", ctx.Config.ValidateSchedule())
	report("Timezone", ctx.Config.ValidateTimezone())

	if len(ctx.Config.JWTSecret) == 0 {
		ctx.Printf("⚠ JWT secret: WARNING\n")
		ctx.Printf("   MOMENTUM_JWT_SECRET is not set, 'momentum serve' will refuse to start\n")
	} else {
		report("JWT secret", checkJWTSecret(ctx))
	}

	if ctx.Config.LeaseEnabled() {
		report("Redis lease", checkRedis(ctx))
	} else {
		ctx.Printf("⊘ Redis lease: SKIPPED (MOMENTUM_REDIS_URL not set)\n")
	}

	if keyring.IsAvailable() {
		ctx.Printf("✓ OS keyring: OK\n")
	} else {
		ctx.Printf("⚠ OS keyring: WARNING\n")
		ctx.Printf("   keyring unavailable, secrets must come from the environment\n")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return store.Ping(pingCtx)
}

func checkSchemaVersion(ctx *cli.Context) error {
	store, err := ctx.Store()
	if err != nil {
		return err
	}
	current, latest, err := store.SchemaVersion()
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind %d, run 'momentum migrate'", current, latest)
	}
	return nil
}

func checkJWTSecret(ctx *cli.Context) error {
	if len(ctx.Config.JWTSecret) < 32 {
		return fmt.Errorf("secret is %d bytes, at least 32 are required", len(ctx.Config.JWTSecret))
	}
	return nil
}

func checkRedis(ctx *cli.Context) error {
	l, err := lease.NewLocker(ctx.Config.RedisURL)
	if err != nil {
		return err
	}
	return l.Close()
}
