package mongodb_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emiliopalmerini/abadmin/internal/adapters/mongodb"
	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/ports"
)

// testMongo starts a MongoDB container and returns repositories bound to a
// fresh database. It is skipped with -short or when no container runtime is
// available.
func testMongo(t *testing.T) *ports.Repositories {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("MongoDB container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "27017")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())
	client, err := mongodb.Connect(ctx, uri, "abadmin--"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if err := client.EnsureIndexes(ctx); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	repos := mongodb.NewRepositories(client)
	t.Cleanup(func() { _ = repos.Close(ctx) })
	return repos
}

func TestMongoRepositories(t *testing.T) {
	repos := testMongo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	exp := domain.NewExperiment(uuid.NewString(), "Button", "colors", now)
	if err := repos.Experiments.Create(ctx, exp); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("duplicate experiment name", func(t *testing.T) {
		dup := domain.NewExperiment(uuid.NewString(), "Button", "", now)
		if err := repos.Experiments.Create(ctx, dup); !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("Create() error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("missing experiment is nil", func(t *testing.T) {
		got, err := repos.Experiments.GetByID(ctx, "missing")
		if err != nil || got != nil {
			t.Errorf("GetByID() = %v, %v, want nil, nil", got, err)
		}
	})

	var variantIDs []string
	t.Run("variants keep order and participant set", func(t *testing.T) {
		for _, name := range []string{"red", "blue", "control"} {
			v := &domain.Variant{
				ID:           uuid.NewString(),
				ExperimentID: exp.ID,
				Name:         name,
				Allocation:   domain.DefaultAllocation,
				CreatedAt:    now,
			}
			if err := repos.Variants.Create(ctx, v); err != nil {
				t.Fatalf("Variants.Create(%s) error = %v", name, err)
			}
			if err := repos.Experiments.AddVariant(ctx, exp.ID, v.ID); err != nil {
				t.Fatalf("AddVariant() error = %v", err)
			}
			variantIDs = append(variantIDs, v.ID)
		}
		_ = repos.Experiments.AddVariant(ctx, exp.ID, variantIDs[0])

		got, err := repos.Experiments.GetByID(ctx, exp.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if len(got.VariantIDs) != 3 {
			t.Fatalf("VariantIDs = %v, want 3 entries", got.VariantIDs)
		}

		for i := 0; i < 2; i++ {
			if err := repos.Variants.AddParticipant(ctx, variantIDs[1], "session-1"); err != nil {
				t.Fatalf("AddParticipant() error = %v", err)
			}
		}
		variants, err := repos.Variants.ListByIDs(ctx, []string{variantIDs[2], variantIDs[1]})
		if err != nil {
			t.Fatalf("ListByIDs() error = %v", err)
		}
		if variants[0].Name != "control" || variants[1].Name != "blue" {
			t.Errorf("ListByIDs() order = %s, %s", variants[0].Name, variants[1].Name)
		}
		if len(variants[1].Participants) != 1 {
			t.Errorf("Participants = %v, want one entry", variants[1].Participants)
		}
	})

	t.Run("status update round trip", func(t *testing.T) {
		if _, err := exp.Apply(domain.ActionPlay, now); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if err := repos.Experiments.Update(ctx, exp); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, _ := repos.Experiments.GetByName(ctx, "Button")
		if got.Status != domain.StatusRunning || got.StartDate == nil || !got.StartDate.Equal(now) {
			t.Errorf("after Update: status=%s start=%v", got.Status, got.StartDate)
		}
		if len(got.VariantIDs) != 3 {
			t.Errorf("Update dropped variant references: %v", got.VariantIDs)
		}
	})

	t.Run("participants and users", func(t *testing.T) {
		if err := repos.Participants.Create(ctx, &domain.Participant{ID: "session-1", CreatedAt: now}); err != nil {
			t.Fatalf("Participants.Create() error = %v", err)
		}
		err := repos.Participants.Create(ctx, &domain.Participant{ID: "session-1", CreatedAt: now})
		if !errors.Is(err, domain.ErrAlreadyExists) {
			t.Errorf("Participants.Create() dup error = %v", err)
		}

		user := &domain.User{ID: uuid.NewString(), Username: "alice_w", PasswordHash: "x", CreatedAt: now}
		if err := repos.Users.Create(ctx, user); err != nil {
			t.Fatalf("Users.Create() error = %v", err)
		}
		if err := repos.Participants.LinkUser(ctx, "session-1", user.ID); err != nil {
			t.Fatalf("LinkUser() error = %v", err)
		}
		p, _ := repos.Participants.GetByID(ctx, "session-1")
		if p.UserID == nil || *p.UserID != user.ID {
			t.Errorf("UserID = %v, want %s", p.UserID, user.ID)
		}
	})

	t.Run("funnel counts", func(t *testing.T) {
		for i, step := range []domain.FunnelStep{domain.StepLanded, domain.StepLanded, domain.StepSignedUp} {
			e := &domain.FunnelEvent{ID: fmt.Sprintf("ev-%d", i), SessionID: "session-1", Step: step, OccurredAt: now}
			if err := repos.FunnelEvents.Create(ctx, e); err != nil {
				t.Fatalf("FunnelEvents.Create() error = %v", err)
			}
		}
		counts, err := repos.FunnelEvents.CountByStep(ctx)
		if err != nil {
			t.Fatalf("CountByStep() error = %v", err)
		}
		got := map[domain.FunnelStep]int64{}
		for _, c := range counts {
			got[c.Step] = c.Count
		}
		if got[domain.StepLanded] != 2 || got[domain.StepSignedUp] != 1 {
			t.Errorf("CountByStep() = %v", counts)
		}
	})
}
