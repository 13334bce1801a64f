package approval

import (
	"context"
	"fmt"
	"sync"

	"github.com/wavetune/wavetune/internal/clock"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/policy"
	"github.com/wavetune/wavetune/service/event"
	"github.com/wavetune/wavetune/service/mapper"
	"github.com/wavetune/wavetune/tracing"
)

// Manager drives the confirm-before-execute cycle: a mapped gesture becomes
// pending, only the approval gesture advances it, and exactly one action
// executes per cycle.
//
// HandleGesture expects serialized delivery - one observation processed to
// completion before the next. The runtime consumer loop guarantees that; the
// internal mutex additionally protects direct callers that bypass the queue.
type Manager struct {
	mapper  *mapper.Service
	policy  *policy.Policy
	notices *event.Publisher[Notice]

	mux     sync.Mutex
	state   State
	pending gesture.Gesture
}

// New creates an approval manager over the supplied mapper.
func New(mapper *mapper.Service, opts ...Option) *Manager {
	m := &Manager{
		mapper: mapper,
		state:  StateIdle,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// State returns the current approval state.
func (m *Manager) State() State {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.state
}

// Pending returns the gesture awaiting confirmation; gesture.None when the
// manager is idle.
func (m *Manager) Pending() gesture.Gesture {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.pending
}

// Reset cancels any pending candidate and returns the manager to idle.
func (m *Manager) Reset(ctx context.Context) {
	m.mux.Lock()
	canceled := m.pending
	m.pending = gesture.None
	m.state = StateIdle
	m.mux.Unlock()
	if !canceled.IsNone() {
		m.publish(ctx, Notice{Topic: TopicCanceled, Gesture: canceled})
	}
}

// HandleGesture processes a single recognized-gesture observation. It never
// returns an error and never leaves the manager outside idle or
// pendingApproval: action failures are reported as notices and the
// post-execution reset is unconditional.
func (m *Manager) HandleGesture(ctx context.Context, g gesture.Gesture) {
	m.mux.Lock()
	defer m.mux.Unlock()

	ctx, span := tracing.StartSpan(ctx, "approval.HandleGesture", "INTERNAL")
	var err error
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{
		"gesture.name":   string(g),
		"approval.state": string(m.state),
	})

	switch m.state {
	case StateIdle:
		err = m.handleIdle(ctx, g)
	case StatePendingApproval:
		err = m.handlePending(ctx, g)
	default:
		// Executing is transient; an observation can only find this state
		// after a bug. Recover by resetting.
		m.pending = gesture.None
		m.state = StateIdle
	}
}

// handleIdle implements the idle row of the transition table: the approval
// gesture alone is a no-op, an unmapped or absent gesture is a no-op, and a
// mapped gesture becomes the pending candidate.
func (m *Manager) handleIdle(ctx context.Context, g gesture.Gesture) error {
	if g == gesture.Approval || g.IsNone() {
		return nil
	}
	binding := m.mapper.Lookup(g)
	if binding == nil {
		return nil
	}

	pol := m.effectivePolicy(ctx)
	if !pol.IsAllowed(binding.Action) {
		return nil
	}
	switch pol.EffectiveMode() {
	case policy.ModeDeny:
		return nil
	case policy.ModeAuto:
		return m.execute(ctx, g)
	}

	m.pending = g
	m.state = StatePendingApproval
	m.publish(ctx, Notice{
		Topic:   TopicAwaitingApproval,
		Gesture: g,
		Action:  binding.Action,
		Label:   binding.Label,
	})
	return nil
}

// handlePending retains the first detected candidate: only the approval
// gesture advances the cycle, every other observation (mapped, unmapped or
// none) is discarded.
func (m *Manager) handlePending(ctx context.Context, g gesture.Gesture) error {
	if g != gesture.Approval {
		return nil
	}
	return m.execute(ctx, m.pending)
}

// execute dispatches the action bound to g. The reset runs deferred so that
// no dispatch outcome - missing binding, action error, panic recovery
// upstream - can leave the manager stuck outside idle.
func (m *Manager) execute(ctx context.Context, g gesture.Gesture) (err error) {
	m.state = StateExecuting
	defer func() {
		m.pending = gesture.None
		m.state = StateIdle
	}()

	notice := Notice{Topic: TopicPerforming, Gesture: g}
	if binding := m.mapper.Lookup(g); binding != nil {
		notice.Action = binding.Action
		notice.Label = binding.Label
	}
	m.publish(ctx, notice)

	if err = m.mapper.Dispatch(ctx, g); err != nil {
		m.publish(ctx, Notice{Topic: TopicFailed, Gesture: g, Action: notice.Action, Error: err.Error()})
		return err
	}
	m.publish(ctx, Notice{Topic: TopicPerformed, Gesture: g, Action: notice.Action, Label: notice.Label})
	return nil
}

// effectivePolicy prefers a per-call policy carried in ctx over the
// manager-level one.
func (m *Manager) effectivePolicy(ctx context.Context) *policy.Policy {
	if p := policy.FromContext(ctx); p != nil {
		return p
	}
	return m.policy
}

func (m *Manager) publish(ctx context.Context, notice Notice) {
	if m.notices == nil {
		return
	}
	notice.At = clock.Now()
	_ = m.notices.Publish(ctx, event.NewEvent(notice))
}

// String renders the manager state for diagnostics.
func (m *Manager) String() string {
	m.mux.Lock()
	defer m.mux.Unlock()
	return fmt.Sprintf("ApprovalManager(state=%v, gesture=%v)", m.state, m.pending)
}
