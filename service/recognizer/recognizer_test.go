package recognizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/service/messaging/memory"
)

func drain(t *testing.T, queue *memory.Queue[gesture.Observation]) []gesture.Observation {
	t.Helper()
	var out []gesture.Observation
	for queue.Size() > 0 {
		msg, err := queue.Consume(context.Background())
		assert.NoError(t, err)
		assert.NoError(t, msg.Ack())
		out = append(out, *msg.T())
	}
	return out
}

func TestService_Scan(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		options  []Option
		expected []gesture.Gesture
		errors   int
	}

	tests := []testCase{
		{
			name: "known labels in order",
			input: `{"gesture":"Thumb_Up","confidence":0.9,"hand":"Right","ts":1700000000000}
{"gesture":"Closed_Fist","confidence":0.95,"hand":"Right","ts":1700000000100}
`,
			expected: []gesture.Gesture{gesture.ThumbUp, gesture.ClosedFist},
		},
		{
			name:     "unknown label degrades to none",
			input:    `{"gesture":"Jazz_Hands","confidence":0.9}` + "\n",
			expected: []gesture.Gesture{gesture.None},
		},
		{
			name:     "low confidence degrades to none",
			input:    `{"gesture":"Thumb_Up","confidence":0.3,"hand":"Left"}` + "\n",
			expected: []gesture.Gesture{gesture.None},
		},
		{
			name:     "custom confidence floor",
			input:    `{"gesture":"Thumb_Up","confidence":0.3}` + "\n",
			options:  []Option{WithMinConfidence(0.2)},
			expected: []gesture.Gesture{gesture.ThumbUp},
		},
		{
			name: "malformed line skipped",
			input: `not json
{"gesture":"Victory","confidence":0.8}
`,
			expected: []gesture.Gesture{gesture.Victory},
			errors:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var reported []string
			opts := append([]Option{WithStderrListener(func(text string) {
				reported = append(reported, text)
			})}, tc.options...)
			service := New("recognizer", opts...)
			queue := memory.NewQueue[gesture.Observation](memory.DefaultConfig())

			err := service.scan(context.Background(), strings.NewReader(tc.input), queue)
			assert.NoError(t, err)

			observations := drain(t, queue)
			actual := make([]gesture.Gesture, 0, len(observations))
			for _, o := range observations {
				actual = append(actual, o.Gesture)
				assert.NotEmpty(t, o.ID)
				assert.False(t, o.At.IsZero())
			}
			assert.EqualValues(t, tc.expected, actual)
			assert.Len(t, reported, tc.errors)
		})
	}
}

func TestService_ScanPreservesTimestamp(t *testing.T) {
	service := New("recognizer")
	queue := memory.NewQueue[gesture.Observation](memory.DefaultConfig())
	input := `{"gesture":"Open_Palm","confidence":0.7,"ts":1700000000000}` + "\n"

	assert.NoError(t, service.scan(context.Background(), strings.NewReader(input), queue))
	observations := drain(t, queue)
	assert.Len(t, observations, 1)
	assert.EqualValues(t, 1700000000000, observations[0].At.UnixMilli())
}

func TestService_RunRequiresCommand(t *testing.T) {
	service := New("")
	queue := memory.NewQueue[gesture.Observation](memory.DefaultConfig())
	assert.Error(t, service.Run(context.Background(), queue))
}
