package web

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

func TestButtonFor(t *testing.T) {
	tests := []struct {
		variant   string
		wantColor string
		wantText  string
	}{
		{"red_no_text", "red", "Register"},
		{"red_with_text", "red", "Start your journey!"},
		{"blue_no_text", "blue", "Register"},
		{"blue_with_text", "blue", "Start your journey!"},
		{"control", "default", "Register"},
		{"", "default", "Register"},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			color, text := buttonFor(tt.variant)
			if color != tt.wantColor || text != tt.wantText {
				t.Errorf("buttonFor(%q) = %q, %q; want %q, %q", tt.variant, color, text, tt.wantColor, tt.wantText)
			}
		})
	}
}

func TestParseAllocationForm(t *testing.T) {
	t.Run("with descriptions", func(t *testing.T) {
		got, err := parseAllocationForm([]string{"a", "b"}, []string{"3", " 0 "}, []string{"x", ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].Allocation != 3 || got[1].Allocation != 0 {
			t.Fatalf("got %+v", got)
		}
		if got[0].Description == nil || *got[0].Description != "x" || got[1].Description == nil || *got[1].Description != "" {
			t.Errorf("descriptions not applied: %+v", got)
		}
	})

	t.Run("without descriptions", func(t *testing.T) {
		got, err := parseAllocationForm([]string{"a"}, []string{"2"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].Description != nil {
			t.Errorf("description should be left alone, got %q", *got[0].Description)
		}
	})

	t.Run("negative is passed through", func(t *testing.T) {
		got, err := parseAllocationForm([]string{"a"}, []string{"-4"}, nil)
		if err != nil || got[0].Allocation != -4 {
			t.Errorf("got %+v, %v", got, err)
		}
	})

	for name, values := range map[string][]string{
		"length mismatch": {"1"},
		"not a number":    {"1", "1.5"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseAllocationForm([]string{"a", "b"}, values, nil)
			if !errors.Is(err, errBadForm) {
				t.Errorf("err = %v, want errBadForm", err)
			}
		})
	}
}

func TestAvailableActions(t *testing.T) {
	tests := []struct {
		status domain.ExperimentStatus
		want   []string
	}{
		{domain.StatusDraft, []string{"Play", "Stop", "Complete"}},
		{domain.StatusRunning, []string{"Pause", "Stop", "Complete"}},
		{domain.StatusPaused, []string{"Play", "Stop", "Complete"}},
		{domain.StatusStopped, nil},
		{domain.StatusCompleted, nil},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := availableActions(tt.status); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("availableActions(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("get: %w", domain.ErrExperimentNotFound), http.StatusNotFound},
		{errPageNotFound, http.StatusNotFound},
		{domain.ErrUnknownVariant, http.StatusBadRequest},
		{domain.ErrNegativeAllocation, http.StatusBadRequest},
		{fmt.Errorf("%w: x", errBadForm), http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrDuplicateName, http.StatusConflict},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
