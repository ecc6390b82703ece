package domain

import (
	"fmt"
	"strings"
	"time"
)

// FunnelStep is how far a session has progressed towards signing up.
type FunnelStep string

const (
	StepLanded    FunnelStep = "landed"
	StepSigningUp FunnelStep = "signing_up"
	StepSignedUp  FunnelStep = "signed_up"
)

var FunnelSteps = []FunnelStep{StepLanded, StepSigningUp, StepSignedUp}

func ParseFunnelStep(s string) (FunnelStep, error) {
	switch v := FunnelStep(strings.ToLower(strings.TrimSpace(s))); v {
	case StepLanded, StepSigningUp, StepSignedUp:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFunnelStep, s)
	}
}

type FunnelEvent struct {
	ID         string
	SessionID  string
	Step       FunnelStep
	OccurredAt time.Time
}

// FunnelCount is the number of events recorded for one step.
type FunnelCount struct {
	Step  FunnelStep
	Count int64
}
