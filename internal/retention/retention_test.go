package retention

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/momentum/internal/auth"
	"github.com/julianstephens/momentum/internal/constants"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/models"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

var baseTime = time.Date(2024, 6, 15, 3, 0, 0, 0, time.UTC)

func setupTestStore(t *testing.T) *storage.SQLStore {
	t.Helper()
	store, err := storage.Init(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seed(t *testing.T, store storage.Provider, userID string, nudgesAt, checkinsAt []int64) {
	t.Helper()
	ctx := context.Background()
	if err := store.EnsureUser(ctx, userID, 0); err != nil {
		t.Fatalf("EnsureUser failed: %v", err)
	}
	for i, at := range nudgesAt {
		n := models.Nudge{ID: userID + "-n" + string(rune('0'+i)), UserID: userID, Message: "go", CreatedAt: at}
		if err := store.InsertNudge(ctx, n); err != nil {
			t.Fatalf("InsertNudge failed: %v", err)
		}
	}
	for i, at := range checkinsAt {
		c := models.Checkin{ID: userID + "-c" + string(rune('0'+i)), UserID: userID, CreatedAt: at}
		if err := store.InsertCheckin(ctx, c); err != nil {
			t.Fatalf("InsertCheckin failed: %v", err)
		}
	}
}

func count(t *testing.T, store *storage.SQLStore, table, userID string) int {
	t.Helper()
	var n int
	if err := store.DB().QueryRow(`SELECT count(*) FROM `+table+` WHERE user_id = ?`, userID).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		now  int64
		days int
		want int64
	}{
		{now: 1_000_000_000_000, days: 14, want: 1_000_000_000_000 - 14*86_400_000},
		{now: 1_000_000_000_000, days: 1, want: 1_000_000_000_000 - 86_400_000},
		{now: 86_400_000, days: 1, want: 0},
	}
	for _, tt := range tests {
		if got := Cutoff(tt.now, tt.days); got != tt.want {
			t.Errorf("Cutoff(%d, %d) = %d, want %d", tt.now, tt.days, got, tt.want)
		}
	}
}

func TestPurgeDefaultBoundary(t *testing.T) {
	store := setupTestStore(t)
	now := utils.ToMillis(baseTime)
	cutoff := Cutoff(now, constants.DefaultNotificationRetentionDays)

	seed(t, store, "u1",
		[]int64{cutoff - 1, cutoff, cutoff + 1},
		[]int64{cutoff - 1, cutoff + 1})

	report, err := NewPurger(store, utils.FixedClock(baseTime)).Purge(context.Background())
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	// strictly older than the cutoff is expired; the cutoff itself survives
	if report.NudgesDeleted != 1 || report.CheckinsDeleted != 1 || report.UsersScanned != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if n := count(t, store, "nudges", "u1"); n != 2 {
		t.Errorf("expected 2 nudges left, got %d", n)
	}
	if n := count(t, store, "checkins", "u1"); n != 1 {
		t.Errorf("expected 1 check-in left, got %d", n)
	}
}

func TestPurgeUsesNotificationsRetention(t *testing.T) {
	store := setupTestStore(t)
	now := utils.ToMillis(baseTime)
	shortCutoff := Cutoff(now, 3)
	checkinCutoff := Cutoff(now, constants.DefaultCheckinRetentionDays)

	seed(t, store, "u1",
		[]int64{shortCutoff - 1, shortCutoff + 1},
		[]int64{shortCutoff - 1, checkinCutoff + 1})
	inserted, err := store.InsertDataSourceIfMissing(context.Background(), models.DataSource{
		ID: "ds1", UserID: "u1", Source: constants.SourceNotifications, Enabled: true, RetentionDays: 3, CreatedAt: 1, UpdatedAt: 1,
	})
	if err != nil || !inserted {
		t.Fatalf("InsertDataSourceIfMissing = %v, %v", inserted, err)
	}

	report, err := NewPurger(store, utils.FixedClock(baseTime)).Purge(context.Background())
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	if report.NudgesDeleted != 1 {
		t.Errorf("NudgesDeleted = %d, want 1", report.NudgesDeleted)
	}
	// check-ins ignore the notifications override
	if report.CheckinsDeleted != 0 {
		t.Errorf("CheckinsDeleted = %d, want 0", report.CheckinsDeleted)
	}
}

func TestPurgeIdempotent(t *testing.T) {
	store := setupTestStore(t)
	now := utils.ToMillis(baseTime)
	old := Cutoff(now, 30)

	seed(t, store, "u1", []int64{old, now}, []int64{old, now})
	seed(t, store, "u2", []int64{old}, nil)

	purger := NewPurger(store, utils.FixedClock(baseTime))
	first, err := purger.Purge(context.Background())
	if err != nil {
		t.Fatalf("first Purge failed: %v", err)
	}
	if first.NudgesDeleted != 2 || first.CheckinsDeleted != 1 || first.UsersScanned != 2 {
		t.Errorf("unexpected first report: %+v", first)
	}

	second, err := purger.Purge(context.Background())
	if err != nil {
		t.Fatalf("second Purge failed: %v", err)
	}
	if second.NudgesDeleted != 0 || second.CheckinsDeleted != 0 {
		t.Errorf("second run deleted rows: %+v", second)
	}
}

// failingStore fails nudge deletion for one user
type failingStore struct {
	storage.Provider
	failUser string
}

func (f *failingStore) DeleteNudgesBefore(ctx context.Context, userID string, cutoff int64) (int64, error) {
	if userID == f.failUser {
		return 0, errors.New("disk on fire")
	}
	return f.Provider.DeleteNudgesBefore(ctx, userID, cutoff)
}

func TestPurgeContinuesPastFailingUser(t *testing.T) {
	store := setupTestStore(t)
	old := Cutoff(utils.ToMillis(baseTime), 30)

	seed(t, store, "a-bad", []int64{old}, []int64{old})
	seed(t, store, "b-good", []int64{old}, []int64{old})

	purger := NewPurger(&failingStore{Provider: store, failUser: "a-bad"}, utils.FixedClock(baseTime))
	report, err := purger.Purge(context.Background())
	if err == nil {
		t.Fatal("expected joined error for the failing user")
	}
	if report.UsersScanned != 2 || report.UsersFailed != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if n := count(t, store, "nudges", "b-good"); n != 0 {
		t.Errorf("good user's nudges not purged: %d left", n)
	}
	// the failing user's check-ins are still purged
	if n := count(t, store, "checkins", "a-bad"); n != 0 {
		t.Errorf("failing user's check-ins not purged: %d left", n)
	}
	if n := count(t, store, "nudges", "a-bad"); n != 1 {
		t.Errorf("failing user's nudges = %d, want 1", n)
	}
}

func TestPurgeStopsOnCancel(t *testing.T) {
	store := setupTestStore(t)
	seed(t, store, "u1", []int64{0}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewPurger(store, utils.FixedClock(baseTime)).Purge(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Purge() error = %v, want context.Canceled", err)
	}
	if report.UsersScanned != 0 {
		t.Errorf("UsersScanned = %d, want 0", report.UsersScanned)
	}
}

func TestRecorder(t *testing.T) {
	store := setupTestStore(t)
	rec := NewRecorder(store, utils.FixedClock(baseTime))
	ctx := auth.WithUserID(context.Background(), "u1")

	if _, err := rec.RecordNudge(context.Background(), "hi"); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("RecordNudge() error = %v, want ErrUnauthenticated", err)
	}
	if _, err := rec.RecordCheckin(context.Background(), "hi"); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("RecordCheckin() error = %v, want ErrUnauthenticated", err)
	}
	if _, err := rec.RecordNudge(ctx, "   "); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("RecordNudge(blank) error = %v, want ErrValidation", err)
	}

	if _, err := rec.RecordNudge(ctx, "Start the draft"); err != nil {
		t.Fatalf("RecordNudge failed: %v", err)
	}
	if _, err := rec.RecordCheckin(ctx, "Felt good"); err != nil {
		t.Fatalf("RecordCheckin failed: %v", err)
	}
	if n := count(t, store, "nudges", "u1"); n != 1 {
		t.Errorf("nudges = %d, want 1", n)
	}
	if n := count(t, store, "checkins", "u1"); n != 1 {
		t.Errorf("checkins = %d, want 1", n)
	}

	ids, err := store.ListUserIDs(context.Background())
	if err != nil || len(ids) != 1 || ids[0] != "u1" {
		t.Errorf("ListUserIDs() = %v, %v; recorder should register the user", ids, err)
	}
}
