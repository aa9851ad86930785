package profile

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/momentum/internal/cli"
	"github.com/julianstephens/momentum/internal/config"
	apperrors "github.com/julianstephens/momentum/internal/errors"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	ctx := cli.New(config.NewForTesting(), filepath.Join(t.TempDir(), "test.db"), "u1")
	ctx.Out = &out
	t.Cleanup(func() { ctx.Close() })
	return ctx, &out
}

func TestIdentityAddAndList(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&IdentityListCmd{}).Run(ctx); err != nil {
		t.Fatalf("IdentityListCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "No identity statements") {
		t.Errorf("unexpected output: %q", out.String())
	}

	for _, s := range []string{"I am a writer", "  I finish what I start  "} {
		if err := (&IdentityAddCmd{Statement: s}).Run(ctx); err != nil {
			t.Fatalf("IdentityAddCmd.Run(%q) error = %v", s, err)
		}
	}
	if !strings.Contains(out.String(), "(2 total)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&IdentityListCmd{}).Run(ctx); err != nil {
		t.Fatalf("IdentityListCmd.Run() error = %v", err)
	}
	want := "1. I am a writer\n2. I finish what I start\n"
	if out.String() != want {
		t.Errorf("IdentityListCmd output = %q, want %q", out.String(), want)
	}
}

func TestIdentityAddRejectsBlank(t *testing.T) {
	ctx, _ := setupTestDB(t)

	err := (&IdentityAddCmd{Statement: "   "}).Run(ctx)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUserSetKeepsExistingFields(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&UserSetCmd{Name: "Ada", Email: "ada@example.com"}).Run(ctx); err != nil {
		t.Fatalf("UserSetCmd.Run() error = %v", err)
	}

	out.Reset()
	if err := (&UserSetCmd{Name: "Ada L."}).Run(ctx); err != nil {
		t.Fatalf("UserSetCmd.Run() error = %v", err)
	}
	for _, want := range []string{"User u1 saved", "Ada L.", "ada@example.com"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestNudgeAndCheckin(t *testing.T) {
	ctx, out := setupTestDB(t)

	if err := (&NudgeCmd{Message: "Start the draft"}).Run(ctx); err != nil {
		t.Fatalf("NudgeCmd.Run() error = %v", err)
	}
	if err := (&CheckinCmd{}).Run(ctx); err != nil {
		t.Fatalf("CheckinCmd.Run() error = %v", err)
	}
	if strings.Count(out.String(), "recorded (ID: ") != 2 {
		t.Errorf("unexpected output: %q", out.String())
	}

	err := (&NudgeCmd{Message: " "}).Run(ctx)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for blank nudge, got %v", err)
	}
}

func TestCommandsRequireUser(t *testing.T) {
	ctx, _ := setupTestDB(t)
	ctx.User = ""

	if err := (&IdentityAddCmd{Statement: "x"}).Run(ctx); err == nil {
		t.Error("expected error without a user")
	}
}
