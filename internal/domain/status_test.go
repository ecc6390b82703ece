package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name        string
		from        ExperimentStatus
		action      Action
		want        ExperimentStatus
		wantChanged bool
		wantErr     error
	}{
		{"play from draft", StatusDraft, ActionPlay, StatusRunning, true, nil},
		{"play from paused", StatusPaused, ActionPlay, StatusRunning, true, nil},
		{"play while running", StatusRunning, ActionPlay, StatusRunning, false, nil},
		{"pause while running", StatusRunning, ActionPause, StatusPaused, true, nil},
		{"pause while paused", StatusPaused, ActionPause, StatusPaused, false, nil},
		{"pause from draft", StatusDraft, ActionPause, StatusDraft, false, ErrInvalidTransition},
		{"stop from draft", StatusDraft, ActionStop, StatusStopped, true, nil},
		{"stop while running", StatusRunning, ActionStop, StatusStopped, true, nil},
		{"complete while paused", StatusPaused, ActionComplete, StatusCompleted, true, nil},
		{"play after complete", StatusCompleted, ActionPlay, StatusCompleted, false, ErrInvalidTransition},
		{"pause after complete", StatusCompleted, ActionPause, StatusCompleted, false, ErrInvalidTransition},
		{"stop after complete", StatusCompleted, ActionStop, StatusCompleted, false, ErrInvalidTransition},
		{"complete after stop", StatusStopped, ActionComplete, StatusStopped, false, ErrInvalidTransition},
		{"unknown action", StatusRunning, Action("Rewind"), StatusRunning, false, ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := NextStatus(tt.from, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected status %s, got %s", tt.want, got)
			}
			if changed != tt.wantChanged {
				t.Errorf("expected changed=%v, got %v", tt.wantChanged, changed)
			}
		})
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	for _, action := range Actions {
		if _, _, err := NextStatus(StatusCompleted, action); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s on completed: expected ErrInvalidTransition, got %v", action, err)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
		ok   bool
	}{
		{"Play", ActionPlay, true},
		{"pause", ActionPause, true},
		{" STOP ", ActionStop, true},
		{"Complete", ActionComplete, true},
		{"", "", false},
		{"resume", "", false},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if tt.ok && err != nil {
			t.Errorf("ParseAction(%q): unexpected error %v", tt.in, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidAction) {
			t.Errorf("ParseAction(%q): expected ErrInvalidAction, got %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAction(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseExperimentStatus_LegacyCreated(t *testing.T) {
	got, err := ParseExperimentStatus("created")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != StatusDraft {
		t.Errorf("expected draft, got %s", got)
	}
	if _, err := ParseExperimentStatus("archived"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestExperimentApply_StampsDates(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	exp := NewExperiment("exp-1", "buttons", "", start)

	if _, err := exp.Apply(ActionPlay, start); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if exp.StartDate == nil || !exp.StartDate.Equal(start) {
		t.Fatalf("expected start date %v, got %v", start, exp.StartDate)
	}

	if _, err := exp.Apply(ActionPause, start.Add(time.Hour)); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := exp.Apply(ActionPlay, start.Add(2*time.Hour)); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if !exp.StartDate.Equal(start) {
		t.Errorf("resume must not move start date, got %v", exp.StartDate)
	}

	if _, err := exp.Apply(ActionComplete, end); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if exp.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", exp.Status)
	}
	if exp.EndDate == nil || !exp.EndDate.Equal(end) {
		t.Errorf("expected end date %v, got %v", end, exp.EndDate)
	}

	changed, err := exp.Apply(ActionPlay, end.Add(time.Hour))
	if !errors.Is(err, ErrInvalidTransition) || changed {
		t.Errorf("expected completed experiment to stay completed, changed=%v err=%v", changed, err)
	}
	if exp.Status != StatusCompleted {
		t.Errorf("status moved to %s", exp.Status)
	}
}
