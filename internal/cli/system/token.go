package system

import (
	"errors"
	"time"

	"github.com/julianstephens/momentum/internal/auth"
	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/keyring"
	"github.com/julianstephens/momentum/internal/utils"
)

// TokenCmd issues a bearer token for the API
type TokenCmd struct {
	Subject string        `arg:"" optional:"" help:"User id to issue the token for. Defaults to --user."`
	TTL     time.Duration `help:"Token lifetime (overrides MOMENTUM_TOKEN_TTL)."`
	Save    bool          `help:"Store the token in the OS keyring."`
}

func (c *TokenCmd) Run(ctx *cli.Context) error {
	subject := c.Subject
	if subject == "" {
		subject = ctx.User
	}
	if subject == "" {
		return errors.New("a user id is required, pass it as an argument or with --user")
	}

	ttl := c.TTL
	if ttl == 0 {
		ttl = ctx.Config.TokenTTL
	}

	signer, err := auth.NewSigner(ctx.Config.JWTSecret, ctx.Clock)
	if err != nil {
		return err
	}
	token, expiresAt, err := signer.Issue(subject, ttl)
	if err != nil {
		return err
	}

	if c.Save {
		if err := keyring.Set(keyring.APIToken, token); err != nil {
			return err
		}
		ctx.Printf("✓ Token for %s stored in OS keyring (expires %s)\n", subject, utils.FromMillis(expiresAt).Format(time.RFC3339))
		return nil
	}

	ctx.Println(token)
	return nil
}
