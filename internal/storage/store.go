package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/momentum/internal/migration"
	"github.com/julianstephens/momentum/internal/storage/postgres"
	"github.com/julianstephens/momentum/internal/storage/sqlite"
	"github.com/julianstephens/momentum/migrations"
)

// ErrUniqueViolation is returned when an insert collides with a unique index
var ErrUniqueViolation = errors.New("unique constraint violation")

// execer is the subset of *sql.DB and *sql.Tx the store issues queries through
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements Provider over database/sql for SQLite and PostgreSQL
type SQLStore struct {
	db     *sql.DB
	q      execer
	driver migration.Driver
	path   string
	inTx   bool
}

// NewSQLStore wraps an opened and migrated database
func NewSQLStore(db *sql.DB, driver migration.Driver, path string) *SQLStore {
	return &SQLStore{db: db, q: db, driver: driver, path: path}
}

// Init opens the store named by dsn and applies pending migrations.
// PostgreSQL URLs and key=value DSNs select the postgres driver; anything
// else is treated as a SQLite file path.
func Init(dsn string) (*SQLStore, error) {
	if postgres.IsConnString(dsn) {
		db, err := postgres.Init(dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, migration.DriverPostgres, "postgresql"), nil
	}
	db, err := sqlite.Init(dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, migration.DriverSQLite, dsn), nil
}

// Load opens an existing store without migrating it
func Load(dsn string) (*SQLStore, error) {
	if postgres.IsConnString(dsn) {
		db, err := postgres.Load(dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, migration.DriverPostgres, "postgresql"), nil
	}
	db, err := sqlite.Load(dsn)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, migration.DriverSQLite, dsn), nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	if s.inTx || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetConfigPath returns the SQLite file path, or a non-sensitive label for PostgreSQL
func (s *SQLStore) GetConfigPath() string {
	return s.path
}

// Driver returns the SQL dialect of the underlying database
func (s *SQLStore) Driver() migration.Driver {
	return s.driver
}

// DB returns the underlying connection pool
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// SchemaVersion reports the applied and the newest available migration versions
func (s *SQLStore) SchemaVersion() (current, latest int, err error) {
	subFS, err := fs.Sub(migrations.FS, string(s.driver))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to access %s migrations: %w", s.driver, err)
	}
	runner, err := migration.NewRunner(s.db, subFS, s.driver)
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(Provider) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	txStore := &SQLStore{db: s.db, q: tx, driver: s.driver, path: s.path, inTx: true}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback failed: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.driver != migration.DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.q.ExecContext(ctx, s.rebind(query), args...)
	if err != nil && isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}
	return res, err
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.rebind(query), args...)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// expectOne turns a zero-row update into sql.ErrNoRows
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	i := v.Int64
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// encodeJSON stores slices as JSON text, writing [] for nil
func encodeJSON[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeJSON[T any](raw string) ([]T, error) {
	out := []T{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
