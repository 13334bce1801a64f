package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsAllowed(t *testing.T) {
	type testCase struct {
		name     string
		policy   *Policy
		action   string
		expected bool
	}

	tests := []testCase{
		{name: "nil policy allows all", policy: nil, action: "spotify.mute", expected: true},
		{name: "empty lists allow all", policy: &Policy{}, action: "spotify.mute", expected: true},
		{
			name:     "block list wins",
			policy:   &Policy{AllowList: []string{"spotify.mute"}, BlockList: []string{"spotify.mute"}},
			action:   "spotify.mute",
			expected: false,
		},
		{
			name:     "allow list restricts",
			policy:   &Policy{AllowList: []string{"spotify.next"}},
			action:   "spotify.mute",
			expected: false,
		},
		{
			name:     "case insensitive match",
			policy:   &Policy{AllowList: []string{"Spotify.Mute"}},
			action:   "spotify.mute",
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.policy.IsAllowed(tc.action))
		})
	}
}

func TestPolicy_EffectiveMode(t *testing.T) {
	var nilPolicy *Policy
	assert.Equal(t, ModeAsk, nilPolicy.EffectiveMode())
	assert.Equal(t, ModeAsk, (&Policy{}).EffectiveMode())
	assert.Equal(t, ModeAuto, (&Policy{Mode: "AUTO"}).EffectiveMode())
	assert.Equal(t, ModeDeny, (&Policy{Mode: ModeDeny}).EffectiveMode())
}

func TestPolicy_Context(t *testing.T) {
	p := &Policy{Mode: ModeAuto}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestPolicy_ConfigRoundTrip(t *testing.T) {
	p := &Policy{Mode: ModeDeny, AllowList: []string{"a"}, BlockList: []string{"b"}}
	assert.EqualValues(t, p, FromConfig(ToConfig(p)))
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))
}
