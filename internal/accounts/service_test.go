package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/emiliopalmerini/abadmin/internal/adapters/memory"
	"github.com/emiliopalmerini/abadmin/internal/domain"
)

func newTestService() *Service {
	repos := memory.NewRepositories()
	return NewService(repos.Users, repos.Participants, repos.FunnelEvents, WithBcryptCost(bcrypt.MinCost))
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "alice_w", "s3cret-pass", nil},
		{"short username", "bob", "s3cret-pass", domain.ErrInvalidUsername},
		{"long username", strings.Repeat("x", 51), "s3cret-pass", domain.ErrInvalidUsername},
		{"forbidden char", "ali{ce", "s3cret-pass", domain.ErrInvalidUsername},
		{"short password", "alice_w", "short", domain.ErrWeakPassword},
		{"common password", "alice_w", "Password", domain.ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			user, err := svc.Register(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if user.PasswordHash == tt.password {
				t.Error("password stored in clear text")
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice_w", "s3cret-pass"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := svc.Register(ctx, "alice_w", "another-pass"); !errors.Is(err, domain.ErrDuplicateName) {
		t.Errorf("Register() error = %v, want ErrDuplicateName", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice_w", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	user, err := svc.Authenticate(ctx, "alice_w", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Authenticate() user = %s, want %s", user.ID, registered.ID)
	}

	for _, tc := range [][2]string{{"alice_w", "wrong-pass"}, {"nobody", "s3cret-pass"}} {
		if _, err := svc.Authenticate(ctx, tc[0], tc[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("Authenticate(%s) error = %v, want ErrInvalidCredentials", tc[0], err)
		}
	}
}

func TestEnsureParticipant_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.EnsureParticipant(ctx, "session-1")
	if err != nil {
		t.Fatalf("EnsureParticipant() error = %v", err)
	}
	second, err := svc.EnsureParticipant(ctx, "session-1")
	if err != nil {
		t.Fatalf("EnsureParticipant() error = %v", err)
	}
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Errorf("participant recreated: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	if _, err := svc.EnsureParticipant(ctx, ""); !errors.Is(err, domain.ErrEmptyParticipantID) {
		t.Errorf("EnsureParticipant(\"\") error = %v", err)
	}
}

func TestLinkUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.LinkUser(ctx, "session-1", "user-1"); err != nil {
		t.Fatalf("LinkUser() error = %v", err)
	}
	if err := svc.LinkUser(ctx, "session-1", "user-1"); err != nil {
		t.Errorf("LinkUser() same pair error = %v", err)
	}
	if err := svc.LinkUser(ctx, "session-1", "user-2"); !errors.Is(err, domain.ErrAlreadyLinked) {
		t.Errorf("LinkUser() relink error = %v, want ErrAlreadyLinked", err)
	}
}

func TestFunnelCounts_IncludesEmptySteps(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, step := range []domain.FunnelStep{domain.StepLanded, domain.StepLanded, domain.StepSignedUp} {
		if err := svc.RecordFunnelEvent(ctx, "session-1", step); err != nil {
			t.Fatalf("RecordFunnelEvent() error = %v", err)
		}
	}
	if err := svc.RecordFunnelEvent(ctx, "session-1", "bounced"); !errors.Is(err, domain.ErrInvalidFunnelStep) {
		t.Errorf("RecordFunnelEvent(bounced) error = %v", err)
	}

	got, err := svc.FunnelCounts(ctx)
	if err != nil {
		t.Fatalf("FunnelCounts() error = %v", err)
	}
	want := []int64{2, 0, 1}
	for i, c := range got {
		if c.Step != domain.FunnelSteps[i] || c.Count != want[i] {
			t.Errorf("FunnelCounts()[%d] = %v, want %s=%d", i, c, domain.FunnelSteps[i], want[i])
		}
	}

	events, _ := svc.SessionEvents(ctx, "session-1")
	if len(events) != 3 {
		t.Errorf("SessionEvents() = %d events, want 3", len(events))
	}
}
