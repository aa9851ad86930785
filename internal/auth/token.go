package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/momentum/internal/constants"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/utils"
)

const minSecretLen = 32

// Signer issues and verifies HS256 bearer tokens whose subject is the user id
type Signer struct {
	secret []byte
	clock  utils.Clock
}

// NewSigner validates the secret and returns a Signer
func NewSigner(secret string, clock utils.Clock) (*Signer, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLen)
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Signer{secret: []byte(secret), clock: clock}, nil
}

// Issue signs a token for userID valid for ttl. It returns the token and its
// absolute expiry in epoch milliseconds.
func (s *Signer) Issue(userID string, ttl time.Duration) (string, int64, error) {
	if userID == "" {
		return "", 0, apperrors.Invalid("user id is required")
	}
	if ttl <= 0 {
		return "", 0, apperrors.Invalid("token ttl must be positive")
	}

	now := s.clock()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    constants.AppName,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, utils.ToMillis(expiresAt), nil
}

// Verify parses tokenString and returns its subject. Every failure wraps
// ErrUnauthenticated.
func (s *Signer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.AppName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("%w: token has expired", apperrors.ErrUnauthenticated)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", fmt.Errorf("%w: invalid token signature", apperrors.ErrUnauthenticated)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", fmt.Errorf("%w: malformed token", apperrors.ErrUnauthenticated)
		default:
			return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
		}
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", apperrors.ErrUnauthenticated)
	}
	return claims.Subject, nil
}
