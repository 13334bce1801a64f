package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name     string
		label    string
		expected Gesture
	}

	tests := []testCase{
		{name: "known pose", label: "Thumb_Up", expected: ThumbUp},
		{name: "approval pose", label: "Closed_Fist", expected: ClosedFist},
		{name: "unknown label", label: "Jazz_Hands", expected: None},
		{name: "empty label", label: "", expected: None},
		{name: "case sensitive", label: "thumb_up", expected: None},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, Parse(tc.label))
		})
	}
}

func TestGesture_Known(t *testing.T) {
	assert.True(t, Victory.Known())
	assert.True(t, Approval.Known())
	assert.False(t, None.Known())
	assert.False(t, Gesture("Wave").Known())
}

func TestGesture_IsNone(t *testing.T) {
	assert.True(t, None.IsNone())
	assert.False(t, OpenPalm.IsNone())
}
