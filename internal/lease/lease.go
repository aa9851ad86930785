// Package lease provides short-lived exclusive leases in Redis so that only
// one replica runs a scheduled job per tick.
package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/momentum/internal/constants"
)

// ErrNotHeld is returned when releasing a lease that expired or was taken over
var ErrNotHeld = errors.New("lease not held")

// Deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out leases backed by Redis SET NX PX
type Locker struct {
	client *redis.Client
	prefix string
}

// Lease is a held lock. Release it when the job finishes.
type Lease struct {
	Name  string
	token string
	l     *Locker
}

// NewLocker connects to Redis and verifies the connection
func NewLocker(redisURL string) (*Locker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewLockerWithClient(client), nil
}

// NewLockerWithClient creates a Locker from an existing Redis client
func NewLockerWithClient(client *redis.Client) *Locker {
	return &Locker{client: client, prefix: constants.AppName + ":lease:"}
}

func (l *Locker) key(name string) string {
	return l.prefix + name
}

// Acquire tries to take the named lease for ttl. It returns nil and no error
// when another holder already owns it.
func (l *Locker) Acquire(ctx context.Context, name string, ttl time.Duration) (*Lease, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(name), token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lease %s: %w", name, err)
	}
	if !ok {
		return nil, nil
	}
	return &Lease{Name: name, token: token, l: l}, nil
}

// Release gives the lease up. ErrNotHeld means it had already expired.
func (ls *Lease) Release(ctx context.Context) error {
	n, err := releaseScript.Run(ctx, ls.l.client, []string{ls.l.key(ls.Name)}, ls.token).Int()
	if err != nil {
		return fmt.Errorf("release lease %s: %w", ls.Name, err)
	}
	if n == 0 {
		return ErrNotHeld
	}
	return nil
}

// Close closes the Redis connection
func (l *Locker) Close() error {
	return l.client.Close()
}

// Ping checks if Redis is reachable
func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}
