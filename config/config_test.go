package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/policy"
)

const sampleConfig = `
recognizer:
  command: python3
  args: [recognizer.py]
  minConfidence: 0.7
queue:
  buffer: 32
policy:
  mode: ask
  block: [spotify.pause]
spotify:
  credentialsURL: file:///secrets/spotify.enc
  credentialsKey: blowfish://default
bindings:
  - gesture: Thumb_Up
    action: spotify.like
    label: like current track
  - gesture: Victory
    action: spotify.volumeUp
    args:
      step: 20
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	assert.NoError(t, err)

	assert.Equal(t, "python3", cfg.Recognizer.Command)
	assert.Equal(t, []string{"recognizer.py"}, cfg.Recognizer.Args)
	assert.Equal(t, 0.7, cfg.Recognizer.MinConfidence)
	assert.Equal(t, 32, cfg.Queue.Buffer)
	assert.Equal(t, policy.ModeAsk, cfg.Policy.Mode)
	assert.Equal(t, []string{"spotify.pause"}, cfg.Policy.BlockList)
	assert.Equal(t, "file:///secrets/spotify.enc", cfg.Spotify.CredentialsURL)

	assert.Len(t, cfg.Bindings, 2)
	assert.EqualValues(t, gesture.ThumbUp, cfg.Bindings[0].Gesture)
	assert.Equal(t, "spotify.like", cfg.Bindings[0].Action)
	assert.Equal(t, map[string]interface{}{"step": 20}, cfg.Bindings[1].Args)
}

func TestParse_Invalid(t *testing.T) {
	type testCase struct {
		name  string
		input string
	}

	tests := []testCase{
		{name: "not yaml", input: "\t{"},
		{name: "negative buffer", input: "queue:\n  buffer: -1\n"},
		{name: "confidence out of range", input: "recognizer:\n  minConfidence: 1.5\n"},
		{
			name: "binding without action",
			input: `bindings:
  - gesture: Thumb_Up
`,
		},
		{
			name: "duplicate gesture",
			input: `bindings:
  - gesture: Thumb_Up
    action: spotify.like
  - gesture: Thumb_Up
    action: spotify.next
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(context.Background(), path)
	assert.NoError(t, err)
	assert.Equal(t, "python3", cfg.Recognizer.Command)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
