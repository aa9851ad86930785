package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/momentum/internal/auth"
	"github.com/julianstephens/momentum/internal/config"
	"github.com/julianstephens/momentum/internal/constants"
	"github.com/julianstephens/momentum/internal/keyring"
	"github.com/julianstephens/momentum/internal/logger"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/storage/postgres"
	"github.com/julianstephens/momentum/internal/utils"
)

// Context is handed to every command's Run method
type Context struct {
	Config *config.Config
	// User is the identity local commands act as
	User  string
	Clock utils.Clock
	Out   io.Writer

	dsn   string
	store *storage.SQLStore
}

// New creates a Context whose store is opened on first use
func New(cfg *config.Config, dsn, user string) *Context {
	return &Context{
		Config: cfg,
		User:   strings.TrimSpace(user),
		Clock:  utils.SystemClock,
		Out:    os.Stdout,
		dsn:    dsn,
	}
}

// DSN returns the resolved database location
func (c *Context) DSN() string {
	return c.dsn
}

// Store opens the database on first call. With AutoMigrate pending
// migrations are applied, otherwise the schema version must already match.
func (c *Context) Store() (*storage.SQLStore, error) {
	if c.store != nil {
		return c.store, nil
	}

	var (
		store *storage.SQLStore
		err   error
	)
	if c.Config != nil && c.Config.AutoMigrate {
		store, err = storage.Init(c.dsn)
	} else {
		store, err = storage.Load(c.dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("Opened database", "path", store.GetConfigPath(), "driver", store.Driver())
	c.store = store
	return store, nil
}

// Close releases the store if it was opened
func (c *Context) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// UserContext returns a context carrying the --user identity
func (c *Context) UserContext() (context.Context, error) {
	if c.User == "" {
		return nil, errors.New("this command needs an identity, pass --user or set MOMENTUM_USER")
	}
	return auth.WithUserID(context.Background(), c.User), nil
}

// Printf writes to the command output
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes a line to the command output
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// ResolveDSN picks the database location: the explicit value, then the
// connection string stored in the OS keyring, then the default SQLite path.
// PostgreSQL strings given on the command line or environment must not embed
// a password.
func ResolveDSN(explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if postgres.IsConnString(explicit) {
			if _, err := postgres.ValidateConnString(explicit); err != nil {
				if errors.Is(err, postgres.ErrEmbeddedCredentials) {
					return "", fmt.Errorf("%w: store it with 'momentum keyring set db' or use .pgpass", err)
				}
				return "", err
			}
			return explicit, nil
		}
		return ExpandHome(explicit)
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		logger.Debug("Using connection string from OS keyring")
		return connStr, nil
	case !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("OS keyring unavailable", "error", err)
	}
	return ExpandHome(constants.DefaultConfigPath)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
