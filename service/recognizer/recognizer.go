// Package recognizer feeds gesture observations onto the observation queue.
// The default source is an external recognition process emitting one JSON
// object per stdout line; tests and alternative front-ends implement Source
// directly.
package recognizer

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/wavetune/wavetune/internal/clock"
	"github.com/wavetune/wavetune/internal/idgen"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/service/messaging"
)

// Source produces gesture observations onto a queue until ctx is cancelled or
// the underlying feed ends.
type Source interface {
	Run(ctx context.Context, queue messaging.Queue[gesture.Observation]) error
}

// line is the wire format of a single recognizer stdout line.
type line struct {
	Gesture    string  `json:"gesture"`
	Confidence float64 `json:"confidence"`
	Hand       string  `json:"hand"`
	TS         int64   `json:"ts"`
}

// Service runs an external recognizer process and republishes its stdout as
// observations. Unknown labels and sub-threshold detections degrade to the
// none observation rather than being dropped, so the consumer still sees a
// steady frame cadence.
type Service struct {
	command       string
	args          []string
	dir           string
	minConfidence float64
	stderr        func(string)
}

// New creates a recognizer source for the supplied command line.
func New(command string, opts ...Option) *Service {
	s := &Service{
		command:       command,
		minConfidence: DefaultMinConfidence,
		stderr:        func(text string) { log.Printf("[recognizer] %s", text) },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DefaultMinConfidence discards detections the model itself is unsure about.
const DefaultMinConfidence = 0.6

// Run starts the recognizer process and scans its stdout until the process
// exits or ctx is cancelled. Cancellation is a clean shutdown, not an error.
func (s *Service) Run(ctx context.Context, queue messaging.Queue[gesture.Observation]) error {
	if s.command == "" {
		return errors.New("recognizer command was empty")
	}
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	if s.dir != "" {
		cmd.Dir = s.dir
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start recognizer %v: %w", s.command, err)
	}

	go s.drainStderr(stderr)

	scanErr := s.scan(ctx, stdout, queue)
	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return nil
	}
	if scanErr != nil {
		return scanErr
	}
	if waitErr != nil {
		return fmt.Errorf("recognizer process failed: %w", waitErr)
	}
	return nil
}

// scan reads JSON lines from r and publishes one observation per line.
// Malformed lines are reported on the stderr listener and skipped.
func (s *Service) scan(ctx context.Context, r io.Reader, queue messaging.Queue[gesture.Observation]) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		raw := scanner.Bytes()
		var entry line
		if err := json.Unmarshal(raw, &entry); err != nil {
			s.report(fmt.Sprintf("malformed line %q: %v", raw, err))
			continue
		}
		observation := s.observation(entry)
		if err := queue.Publish(ctx, &observation); err != nil {
			return fmt.Errorf("failed to publish observation: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("recognizer stdout scan failed: %w", err)
	}
	return nil
}

// observation maps a wire line onto an observation; a label outside the known
// set or below the confidence floor yields a none observation.
func (s *Service) observation(entry line) gesture.Observation {
	detected := gesture.Parse(entry.Gesture)
	if entry.Confidence < s.minConfidence {
		detected = gesture.None
	}
	at := clock.Now()
	if entry.TS > 0 {
		at = time.UnixMilli(entry.TS)
	}
	return gesture.Observation{
		ID:         idgen.New(),
		Gesture:    detected,
		Confidence: entry.Confidence,
		Hand:       entry.Hand,
		At:         at,
	}
}

func (s *Service) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.report(scanner.Text())
	}
}

func (s *Service) report(text string) {
	if s.stderr != nil {
		s.stderr(text)
	}
}
