package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/keyring"
	"github.com/julianstephens/momentum/internal/storage/postgres"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Key   string `arg:"" help:"Secret to store: db (PostgreSQL connection string) or token (API token)."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Key)
	if err != nil {
		return err
	}

	if key == keyring.ConnectionString {
		if !postgres.IsConnString(cmd.Value) {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if _, err := postgres.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// The keyring is encrypted, so an embedded password is allowed here.
			ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
			ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(key, cmd.Value); err != nil {
		return err
	}

	ctx.Printf("✓ %s stored successfully in OS keyring\n", key)
	if key == keyring.ConnectionString {
		ctx.Println("  You can now use momentum without the --db flag")
	}
	return nil
}

// KeyringGetCmd prints a stored secret with credentials masked
type KeyringGetCmd struct {
	Key string `arg:"" help:"Secret to show: db or token."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Key)
	if err != nil {
		return err
	}

	v, err := keyring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'momentum keyring set' to store one", key)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", key, err)
	}

	ctx.Printf("%s retrieved from keyring:\n", key)
	if key == keyring.ConnectionString {
		ctx.Println(maskPassword(v))
	} else {
		ctx.Println(maskToken(v))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Key string `arg:"" help:"Secret to delete: db or token."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	key, err := keyring.ParseKey(cmd.Key)
	if err != nil {
		return err
	}

	if err := keyring.Delete(key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", key)
		}
		return err
	}

	ctx.Printf("✓ %s deleted from OS keyring\n", key)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	ctx.Println("✓ OS keyring is available")
	for _, key := range keyring.Keys {
		if _, err := keyring.Get(key); err == nil {
			ctx.Printf("✓ %s is stored in keyring\n", key)
		} else if errors.Is(err, keyring.ErrNotFound) {
			ctx.Printf("ℹ No %s stored in keyring\n", key)
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		masked := make([]string, 0, len(parts))
		for _, part := range parts {
			if strings.HasPrefix(part, "password=") {
				masked = append(masked, "password=****")
			} else {
				masked = append(masked, part)
			}
		}
		return strings.Join(masked, " ")
	}

	return connStr
}

// maskToken keeps only enough of a token to recognize it
func maskToken(token string) string {
	const visible = 8
	if len(token) <= visible {
		return strings.Repeat("*", len(token))
	}
	return token[:visible] + "****"
}
