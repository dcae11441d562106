// Package domain provides core business rules for the leads bounded context.
package domain

import (
	"fmt"
	"strings"
)

// Activity action types written by the application itself.
const (
	ActionStageChange = "stage_change"
	ActionBANTUpdate  = "BANT Update"
)

// IsQualifyingContact reports whether an activity counts as a direct contact
// with the lead. Matching is case-insensitive.
func IsQualifyingContact(actionType string) bool {
	switch strings.ToLower(strings.TrimSpace(actionType)) {
	case "call", "email":
		return true
	}
	return false
}

// TransitionKind classifies the effect of a requested stage change.
type TransitionKind int

const (
	// TransitionNoop means the target equals the current stage.
	TransitionNoop TransitionKind = iota
	// TransitionMove updates the stage.
	TransitionMove
	// TransitionWin enters ClosedWon.
	TransitionWin
	// TransitionTerminate enters ClosedLost, which removes the lead.
	TransitionTerminate
)

// TransitionError explains why a transition was refused.
type TransitionError struct {
	From, To string
	// Unknown is set when the target is not a pipeline stage.
	Unknown bool
}

func (e *TransitionError) Error() string {
	if e.Unknown {
		return fmt.Sprintf("unknown pipeline stage %q", e.To)
	}
	return fmt.Sprintf("no transition from terminal stage %s to %s", e.From, e.To)
}

// PlanTransition decides what moving a lead from current to target means.
// Any non-terminal stage may move to any other stage. A same-stage request
// is a no-op even for terminal stages.
func PlanTransition(current, target string) (TransitionKind, error) {
	if !IsKnownPipelineStage(target) {
		return TransitionNoop, &TransitionError{From: current, To: target, Unknown: true}
	}
	if current == target {
		return TransitionNoop, nil
	}
	if IsTerminalPipelineStage(current) {
		return TransitionNoop, &TransitionError{From: current, To: target}
	}
	switch target {
	case PipelineStageClosedWon:
		return TransitionWin, nil
	case PipelineStageClosedLost:
		return TransitionTerminate, nil
	default:
		return TransitionMove, nil
	}
}
