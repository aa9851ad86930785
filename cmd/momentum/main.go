package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/cli/profile"
	"github.com/julianstephens/momentum/internal/cli/records"
	"github.com/julianstephens/momentum/internal/cli/reports"
	"github.com/julianstephens/momentum/internal/cli/sources"
	"github.com/julianstephens/momentum/internal/cli/system"
	"github.com/julianstephens/momentum/internal/config"
	"github.com/julianstephens/momentum/internal/constants"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"SQLite path or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring or .pgpass instead." placeholder:"DSN"`
	User    string `help:"Act as this user id." env:"MOMENTUM_USER"`
	Debug   bool   `help:"Enable debug logging."`
	LogDir  string `help:"Directory for the rotating log file." type:"path"`
	LogJSON bool   `help:"Write logs as JSON lines."`

	Serve   system.ServeCmd   `cmd:"" help:"Run the HTTP API and the retention purge scheduler."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Purge   system.PurgeCmd   `cmd:"" help:"Purge expired data once."`
	Token   system.TokenCmd   `cmd:"" help:"Issue an API bearer token."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Backup  system.BackupCmd  `cmd:"" help:"Back up the SQLite database."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show keyring availability and stored keys." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`

	Commit struct {
		Set  records.CommitSetCmd  `cmd:"" help:"Create or update the commitment for a day."`
		Show records.CommitShowCmd `cmd:"" help:"Show the commitment for a day." default:"1"`
	} `cmd:"" help:"Manage daily commitments."`
	Evidence struct {
		Log records.EvidenceLogCmd `cmd:"" help:"Log the outcome of a commitment."`
	} `cmd:"" help:"Record evidence."`
	Sprint struct {
		Start records.SprintStartCmd `cmd:"" help:"Start a focus sprint."`
		End   records.SprintEndCmd   `cmd:"" help:"End a focus sprint."`
		Show  records.SprintShowCmd  `cmd:"" help:"Show a focus sprint."`
	} `cmd:"" help:"Manage focus sprints."`

	Momentum reports.MomentumCmd `cmd:"" help:"Show weekly momentum." default:"1"`
	Review   reports.ReviewCmd   `cmd:"" help:"Show the weekly review snapshot."`

	Sources struct {
		List sources.SourcesListCmd `cmd:"" help:"List data source settings." default:"1"`
		Init sources.SourcesInitCmd `cmd:"" help:"Create the default data sources."`
		Set  sources.SourcesSetCmd  `cmd:"" help:"Update a data source."`
	} `cmd:"" help:"Manage data source settings."`
	Identity struct {
		Add  profile.IdentityAddCmd  `cmd:"" help:"Add an identity statement."`
		List profile.IdentityListCmd `cmd:"" help:"List identity statements." default:"1"`
	} `cmd:"" help:"Manage identity statements."`
	Account struct {
		Set profile.UserSetCmd `cmd:"" help:"Update your user record."`
	} `cmd:"" name:"user" help:"Manage your user record."`
	Nudge   profile.NudgeCmd   `cmd:"" help:"Record a nudge."`
	Checkin profile.CheckinCmd `cmd:"" help:"Record a check-in."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily commitments, evidence and weekly momentum"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}
	if CLI.LogJSON {
		cfg.LogJSON = true
	}

	if err := initLogger(cfg, kctx.Command() == "serve"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	dsn := CLI.DB
	if dsn == "" {
		dsn = cfg.DatabaseDSN
	}
	dsn, err = cli.ResolveDSN(dsn)
	if err != nil {
		apperrors.Fatal(err)
	}

	appCtx := cli.New(cfg, dsn, CLI.User)
	defer appCtx.Close()

	if err := kctx.Run(appCtx); err != nil {
		appCtx.Close()
		apperrors.Fatal(err)
	}
}

func initLogger(cfg *config.Config, serving bool) error {
	dir := CLI.LogDir
	if dir == "" {
		dir = cfg.LogDir
	}
	if dir == "" {
		dir = filepath.Join(filepath.Dir(constants.DefaultConfigPath), "logs")
	}
	dir, err := cli.ExpandHome(dir)
	if err != nil {
		return err
	}
	return logger.Init(logger.Config{
		Debug:   cfg.Debug,
		Dir:     dir,
		Console: serving,
		JSON:    cfg.LogJSON,
	})
}
