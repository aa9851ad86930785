package storage

import (
	"context"

	"github.com/julianstephens/momentum/internal/models"
)

// Provider is the document store used by every service. Lookups return a nil
// pointer and nil error when the row does not exist.
type Provider interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
	GetConfigPath() string

	// RunInTx runs fn against a transaction-bound Provider. Any error from fn
	// rolls back every write it made. Nested calls reuse the outer transaction.
	RunInTx(ctx context.Context, fn func(Provider) error) error

	// Users
	UpsertUser(ctx context.Context, user models.User) error
	// EnsureUser creates a bare user row if none exists
	EnsureUser(ctx context.Context, userID string, now int64) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUserIDs(ctx context.Context) ([]string, error)

	// Commitments
	GetCommitment(ctx context.Context, id string) (*models.Commitment, error)
	GetCommitmentByDate(ctx context.Context, userID, date string) (*models.Commitment, error)
	InsertCommitment(ctx context.Context, c models.Commitment) error
	UpdateCommitment(ctx context.Context, c models.Commitment) error
	SetCommitmentStatus(ctx context.Context, id, status string, updatedAt int64) error

	// Evidence, barriers and metrics
	InsertEvidence(ctx context.Context, log models.EvidenceLog) error
	// ListEvidenceBetween returns the user's logs with from <= CreatedAt <= to, oldest first
	ListEvidenceBetween(ctx context.Context, userID string, from, to int64) ([]models.EvidenceLog, error)
	// IncrementBarrier bumps frequency and LastSeenAt, creating the row at 1
	IncrementBarrier(ctx context.Context, userID, label string, seenAt int64) error
	GetBarrier(ctx context.Context, userID, label string) (*models.Barrier, error)
	// TopBarrier orders by frequency, then most recent LastSeenAt, then label
	TopBarrier(ctx context.Context, userID string) (*models.Barrier, error)
	GetMetrics(ctx context.Context, userID string) (*models.Metrics, error)
	// UpsertCompletionRate writes CompletionRateTrend and UpdatedAt, keeping
	// any other metric already stored
	UpsertCompletionRate(ctx context.Context, userID string, rate float64, updatedAt int64) error

	// Sprints
	InsertSprint(ctx context.Context, sprint models.Sprint) error
	GetSprint(ctx context.Context, id string) (*models.Sprint, error)
	FinishSprint(ctx context.Context, id string, endedAt int64, outcome *string) error

	// Data sources
	GetDataSource(ctx context.Context, userID, source string) (*models.DataSource, error)
	ListDataSources(ctx context.Context, userID string) ([]models.DataSource, error)
	// InsertDataSourceIfMissing reports whether a row was created
	InsertDataSourceIfMissing(ctx context.Context, ds models.DataSource) (bool, error)
	UpdateDataSource(ctx context.Context, ds models.DataSource) error

	// Profile
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile) error

	// Nudges and check-ins
	InsertNudge(ctx context.Context, n models.Nudge) error
	InsertCheckin(ctx context.Context, c models.Checkin) error
	// DeleteNudgesBefore removes the user's nudges with CreatedAt < cutoff
	DeleteNudgesBefore(ctx context.Context, userID string, cutoff int64) (int64, error)
	// DeleteCheckinsBefore removes the user's check-ins with CreatedAt < cutoff
	DeleteCheckinsBefore(ctx context.Context, userID string, cutoff int64) (int64, error)
}
