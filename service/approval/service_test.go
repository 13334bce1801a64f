package approval

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wavetune/wavetune/extension"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/model/types"
	"github.com/wavetune/wavetune/policy"
	"github.com/wavetune/wavetune/service/event"
	"github.com/wavetune/wavetune/service/mapper"
	"github.com/wavetune/wavetune/service/messaging/memory"
)

type noInput struct{}
type noOutput struct{}

// playerStub counts invocations per method so tests can assert on
// exactly-once execution.
type playerStub struct {
	calls map[string]int
	fail  bool
}

func newPlayerStub() *playerStub {
	return &playerStub{calls: map[string]int{}}
}

func (p *playerStub) Name() string { return "player" }

func (p *playerStub) Methods() types.Signatures {
	signatures := make(types.Signatures, 0, 3)
	for _, name := range []string{"incrementVolume", "mute", "next"} {
		signatures = append(signatures, types.Signature{
			Name:   name,
			Input:  reflect.TypeOf(&noInput{}),
			Output: reflect.TypeOf(&noOutput{}),
		})
	}
	return signatures
}

func (p *playerStub) Method(name string) (types.Executable, error) {
	if p.Methods().Lookup(name) == nil {
		return nil, types.NewMethodNotFoundError(name)
	}
	return func(ctx context.Context, in, out interface{}) error {
		p.calls[name]++
		if p.fail {
			return errors.New("playback service unreachable")
		}
		return nil
	}, nil
}

type fixture struct {
	stub    *playerStub
	mapper  *mapper.Service
	manager *Manager
	notices *memory.Queue[event.Event[Notice]]
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	stub := newPlayerStub()
	actions := extension.NewActions()
	actions.Register(stub)
	m := mapper.New(actions)

	queue := memory.NewQueue[event.Event[Notice]](memory.DefaultConfig())
	opts = append([]Option{WithNotices(event.NewPublisher(queue))}, opts...)
	return &fixture{
		stub:    stub,
		mapper:  m,
		manager: New(m, opts...),
		notices: queue,
	}
}

func (f *fixture) bind(t *testing.T, g gesture.Gesture, method string) {
	t.Helper()
	assert.NoError(t, f.mapper.Register(&mapper.Binding{Gesture: g, Action: "player." + method}))
}

func (f *fixture) feed(gestures ...gesture.Gesture) {
	ctx := context.Background()
	for _, g := range gestures {
		f.manager.HandleGesture(ctx, g)
	}
}

func (f *fixture) drainTopics(t *testing.T) []string {
	t.Helper()
	var topics []string
	for f.notices.Size() > 0 {
		msg, err := f.notices.Consume(context.Background())
		assert.NoError(t, err)
		topics = append(topics, msg.T().Data.Topic)
	}
	return topics
}

// Approval alone from idle is a no-op.
func TestManager_IdleIgnoresApprovalAlone(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")

	f.feed(gesture.Approval, gesture.Approval, gesture.Approval)

	assert.EqualValues(t, StateIdle, f.manager.State())
	assert.EqualValues(t, gesture.None, f.manager.Pending())
	assert.Empty(t, f.stub.calls)
}

// Mapped gesture then approval executes exactly once.
func TestManager_ConfirmExecutesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")

	f.feed(gesture.ThumbUp, gesture.Approval)

	assert.Equal(t, 1, f.stub.calls["incrementVolume"])
	assert.EqualValues(t, StateIdle, f.manager.State())
	assert.EqualValues(t, gesture.None, f.manager.Pending())
	assert.Equal(t, []string{TopicAwaitingApproval, TopicPerforming, TopicPerformed}, f.drainTopics(t))
}

// A held pose goes pending once and never executes by itself.
func TestManager_IdempotentHold(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")

	f.feed(gesture.ThumbUp, gesture.ThumbUp, gesture.ThumbUp, gesture.ThumbUp)

	assert.EqualValues(t, StatePendingApproval, f.manager.State())
	assert.EqualValues(t, gesture.ThumbUp, f.manager.Pending())
	assert.Empty(t, f.stub.calls)
	assert.Equal(t, []string{TopicAwaitingApproval}, f.drainTopics(t))
}

// Non-approval noise while pending leaves the candidate untouched.
func TestManager_NoiseWhilePending(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")
	f.bind(t, gesture.Victory, "mute")

	f.feed(gesture.ThumbUp)
	for _, noise := range []gesture.Gesture{gesture.Victory, gesture.OpenPalm, gesture.None, gesture.ILoveYou} {
		f.feed(noise)
		assert.EqualValues(t, StatePendingApproval, f.manager.State())
		assert.EqualValues(t, gesture.ThumbUp, f.manager.Pending())
	}
	assert.Empty(t, f.stub.calls)

	// The retained candidate still confirms.
	f.feed(gesture.Approval)
	assert.Equal(t, 1, f.stub.calls["incrementVolume"])
	assert.Equal(t, 0, f.stub.calls["mute"])
}

// Confirming a gesture whose binding was removed is safe.
func TestManager_MissingBindingOnConfirm(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")

	f.feed(gesture.ThumbUp)
	f.mapper.Remove(gesture.ThumbUp)
	f.feed(gesture.Approval)

	assert.Empty(t, f.stub.calls)
	assert.EqualValues(t, StateIdle, f.manager.State())
	assert.EqualValues(t, gesture.None, f.manager.Pending())
}

// Re-registering a gesture replaces its action; confirm runs the latest.
func TestManager_RegistryOverwrite(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")
	f.bind(t, gesture.ThumbUp, "next")

	f.feed(gesture.ThumbUp, gesture.Approval)

	assert.Equal(t, 0, f.stub.calls["incrementVolume"])
	assert.Equal(t, 1, f.stub.calls["next"])
}

// The two concrete sequences from the design notes.
func TestManager_Scenarios(t *testing.T) {
	type testCase struct {
		name     string
		sequence []gesture.Gesture
		expected map[string]int
	}

	tests := []testCase{
		{
			name:     "held thumb up then fist",
			sequence: []gesture.Gesture{gesture.ThumbUp, gesture.ThumbUp, gesture.ClosedFist},
			expected: map[string]int{"incrementVolume": 1},
		},
		{
			name:     "open palm noise is discarded",
			sequence: []gesture.Gesture{gesture.ThumbUp, gesture.OpenPalm, gesture.ClosedFist},
			expected: map[string]int{"incrementVolume": 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.bind(t, gesture.ThumbUp, "incrementVolume")
			f.bind(t, gesture.OpenPalm, "mute")

			f.feed(tc.sequence...)

			assert.Equal(t, tc.expected, f.stub.calls)
			assert.EqualValues(t, StateIdle, f.manager.State())
		})
	}
}

// A failing action still resets the cycle and surfaces only as a notice.
func TestManager_ActionFailureResets(t *testing.T) {
	f := newFixture(t)
	f.stub.fail = true
	f.bind(t, gesture.ThumbDown, "next")

	f.feed(gesture.ThumbDown, gesture.Approval)

	assert.EqualValues(t, StateIdle, f.manager.State())
	assert.EqualValues(t, gesture.None, f.manager.Pending())
	assert.Equal(t, []string{TopicAwaitingApproval, TopicPerforming, TopicFailed}, f.drainTopics(t))

	// The cycle is reusable afterwards.
	f.stub.fail = false
	f.feed(gesture.ThumbDown, gesture.Approval)
	assert.Equal(t, 2, f.stub.calls["next"])
}

// Unmapped and none observations never change state.
func TestManager_IgnoresUnmappedAndNone(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")

	f.feed(gesture.None, gesture.Victory, gesture.None)

	assert.EqualValues(t, StateIdle, f.manager.State())
	assert.Empty(t, f.stub.calls)
	assert.Empty(t, f.drainTopics(t))
}

func TestManager_Reset(t *testing.T) {
	f := newFixture(t)
	f.bind(t, gesture.ThumbUp, "incrementVolume")

	f.feed(gesture.ThumbUp)
	f.manager.Reset(context.Background())

	assert.EqualValues(t, StateIdle, f.manager.State())
	assert.EqualValues(t, gesture.None, f.manager.Pending())

	// Approval after a cancel is a no-op again.
	f.feed(gesture.Approval)
	assert.Empty(t, f.stub.calls)
	assert.Equal(t, []string{TopicAwaitingApproval, TopicCanceled}, f.drainTopics(t))
}

func TestManager_Policy(t *testing.T) {
	t.Run("auto mode skips the pending cycle", func(t *testing.T) {
		f := newFixture(t, WithPolicy(&policy.Policy{Mode: policy.ModeAuto}))
		f.bind(t, gesture.ThumbUp, "incrementVolume")

		f.feed(gesture.ThumbUp)
		assert.Equal(t, 1, f.stub.calls["incrementVolume"])
		assert.EqualValues(t, StateIdle, f.manager.State())
	})

	t.Run("deny mode ignores mapped gestures", func(t *testing.T) {
		f := newFixture(t, WithPolicy(&policy.Policy{Mode: policy.ModeDeny}))
		f.bind(t, gesture.ThumbUp, "incrementVolume")

		f.feed(gesture.ThumbUp, gesture.Approval)
		assert.Empty(t, f.stub.calls)
		assert.EqualValues(t, StateIdle, f.manager.State())
	})

	t.Run("blocked action never goes pending", func(t *testing.T) {
		f := newFixture(t, WithPolicy(&policy.Policy{BlockList: []string{"player.mute"}}))
		f.bind(t, gesture.Victory, "mute")

		f.feed(gesture.Victory)
		assert.EqualValues(t, StateIdle, f.manager.State())
	})

	t.Run("context policy overrides manager policy", func(t *testing.T) {
		f := newFixture(t, WithPolicy(&policy.Policy{Mode: policy.ModeDeny}))
		f.bind(t, gesture.ThumbUp, "incrementVolume")

		ctx := policy.WithPolicy(context.Background(), &policy.Policy{Mode: policy.ModeAuto})
		f.manager.HandleGesture(ctx, gesture.ThumbUp)
		assert.Equal(t, 1, f.stub.calls["incrementVolume"])
	})
}
