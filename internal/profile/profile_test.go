package profile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/momentum/internal/auth"
	apperrors "github.com/julianstephens/momentum/internal/errors"
	"github.com/julianstephens/momentum/internal/storage"
	"github.com/julianstephens/momentum/internal/utils"
)

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func setupTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	store, err := storage.Init(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &testClock{now: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)}
	return NewService(store, clock.Now), clock
}

func TestUpsertCurrentUser(t *testing.T) {
	svc, clock := setupTestService(t)
	ctx := auth.WithUserID(context.Background(), "u1")
	created := utils.ToMillis(clock.now)

	u, err := svc.UpsertCurrentUser(ctx, UserInput{Name: " Ada ", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("UpsertCurrentUser failed: %v", err)
	}
	if u.Name != "Ada" || u.CreatedAt != created {
		t.Errorf("unexpected user: %+v", u)
	}

	clock.now = clock.now.Add(time.Hour)
	u, err = svc.UpsertCurrentUser(ctx, UserInput{ImageURL: "https://example.com/a.png"})
	if err != nil {
		t.Fatalf("UpsertCurrentUser failed: %v", err)
	}
	if u.Name != "Ada" || u.Email != "ada@example.com" || u.ImageURL == "" {
		t.Errorf("empty fields should keep stored values: %+v", u)
	}
	if u.CreatedAt != created || u.UpdatedAt != utils.ToMillis(clock.now) {
		t.Errorf("unexpected timestamps: %+v", u)
	}

	if _, err := svc.UpsertCurrentUser(context.Background(), UserInput{}); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("UpsertCurrentUser() error = %v, want ErrUnauthenticated", err)
	}
}

func TestAddIdentityStatement(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := auth.WithUserID(context.Background(), "u1")

	if p, err := svc.GetProfile(ctx); err != nil || p != nil {
		t.Errorf("GetProfile() = %v, %v; want nil, nil", p, err)
	}

	for _, s := range []string{"I show up", "  I finish drafts  "} {
		if _, err := svc.AddIdentityStatement(ctx, s); err != nil {
			t.Fatalf("AddIdentityStatement failed: %v", err)
		}
	}

	p, err := svc.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if len(p.IdentityStatements) != 2 || *p.LatestIdentityStatement() != "I finish drafts" {
		t.Errorf("unexpected profile: %+v", p)
	}

	if _, err := svc.AddIdentityStatement(ctx, "  "); !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("AddIdentityStatement(blank) error = %v, want ErrValidation", err)
	}
	if p, err := svc.GetProfile(context.Background()); err != nil || p != nil {
		t.Errorf("anonymous GetProfile() = %v, %v; want nil, nil", p, err)
	}
}
