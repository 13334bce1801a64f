package approval

import (
	"time"

	"github.com/wavetune/wavetune/model/gesture"
)

// State identifies the approval cycle phase. Exactly one State exists per
// manager; Executing is transient and never observable between calls.
type State string

const (
	// StateIdle - waiting for a mapped gesture.
	StateIdle State = "idle"

	// StatePendingApproval - a mapped gesture was detected and is retained
	// until the approval gesture confirms it or Reset cancels it.
	StatePendingApproval State = "pendingApproval"

	// StateExecuting - the confirmed action is being dispatched. The manager
	// leaves this state unconditionally before HandleGesture returns.
	StateExecuting State = "executing"
)

// Notice topics published on state transitions.
const (
	TopicAwaitingApproval = "approval.awaiting"
	TopicPerforming       = "approval.performing"
	TopicPerformed        = "approval.performed"
	TopicFailed           = "approval.failed"
	TopicCanceled         = "approval.canceled"
)

// Notice is an advisory record of a state transition, published for UI or
// logging consumers. It plays no part in correctness.
type Notice struct {
	Topic   string          `json:"topic"`
	Gesture gesture.Gesture `json:"gesture,omitempty"`
	Action  string          `json:"action,omitempty"`
	Label   string          `json:"label,omitempty"`
	Error   string          `json:"error,omitempty"`
	At      time.Time       `json:"at"`
}
