package domain

import (
	"fmt"
	"strings"
)

// ExperimentStatus is the lifecycle state of an experiment.
type ExperimentStatus string

const (
	StatusDraft     ExperimentStatus = "draft"
	StatusRunning   ExperimentStatus = "running"
	StatusPaused    ExperimentStatus = "paused"
	StatusStopped   ExperimentStatus = "stopped"
	StatusCompleted ExperimentStatus = "completed"
)

// legacyStatusCreated is how older documents spell StatusDraft.
const legacyStatusCreated = "created"

// ParseExperimentStatus accepts any casing and the legacy "created" spelling.
func ParseExperimentStatus(s string) (ExperimentStatus, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case string(StatusDraft), legacyStatusCreated:
		return StatusDraft, nil
	case string(StatusRunning):
		return StatusRunning, nil
	case string(StatusPaused):
		return StatusPaused, nil
	case string(StatusStopped):
		return StatusStopped, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("unknown experiment status %q", s)
	}
}

// Terminal reports whether no action can move the experiment out of this status.
func (s ExperimentStatus) Terminal() bool {
	return s == StatusStopped || s == StatusCompleted
}

// InProgress reports whether the experiment has started and not been stopped.
// A completed experiment still counts: its participants keep their variants.
func (s ExperimentStatus) InProgress() bool {
	switch s {
	case StatusRunning, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// AcceptsParticipants reports whether new participants may be enrolled.
func (s ExperimentStatus) AcceptsParticipants() bool {
	return s == StatusRunning
}

func (s ExperimentStatus) String() string {
	return string(s)
}

// Action is an operator request to move an experiment through its lifecycle.
type Action string

const (
	ActionPlay     Action = "Play"
	ActionPause    Action = "Pause"
	ActionStop     Action = "Stop"
	ActionComplete Action = "Complete"
)

// Actions lists the lifecycle actions in display order.
var Actions = []Action{ActionPlay, ActionPause, ActionStop, ActionComplete}

// ParseAction parses the status-adv form value.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "play":
		return ActionPlay, nil
	case "pause":
		return ActionPause, nil
	case "stop":
		return ActionStop, nil
	case "complete":
		return ActionComplete, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// NextStatus returns the status reached by applying action to from.
// changed is false when the action is accepted but leaves the status as is.
func NextStatus(from ExperimentStatus, action Action) (to ExperimentStatus, changed bool, err error) {
	if from.Terminal() {
		return from, false, fmt.Errorf("%w: experiment is %s", ErrInvalidTransition, from)
	}

	switch action {
	case ActionPlay:
		switch from {
		case StatusDraft, StatusPaused:
			return StatusRunning, true, nil
		case StatusRunning:
			return from, false, nil
		}
	case ActionPause:
		switch from {
		case StatusRunning:
			return StatusPaused, true, nil
		case StatusPaused:
			return from, false, nil
		case StatusDraft:
			return from, false, fmt.Errorf("%w: experiment has not started", ErrInvalidTransition)
		}
	case ActionStop:
		return StatusStopped, true, nil
	case ActionComplete:
		return StatusCompleted, true, nil
	default:
		return from, false, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	return from, false, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
}
