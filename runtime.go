package wavetune

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/wavetune/wavetune/internal/clock"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/service/approval"
	"github.com/wavetune/wavetune/service/event"
)

// Runtime runs the control loop: the recognizer source publishes observations
// onto the queue, a single consumer drains them into the approval manager, and
// a listener renders transition notices. The single consumer is what
// serializes gesture handling.
type Runtime struct {
	service *Service

	mux      sync.Mutex
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	listener *event.Listener[approval.Notice]
	started  bool
}

// Start launches the consumer loop, the notice listener and, when configured,
// the recognizer source. It returns immediately; the loop stops when ctx is
// cancelled or Shutdown is called.
func (r *Runtime) Start(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if r.started {
		return errors.New("runtime already started")
	}
	ctx, r.cancel = context.WithCancel(ctx)
	r.started = true

	r.listener = event.NewListener(event.NewPublisher(r.service.notices), r.service.noticeHandler)
	r.listener.Start()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.consume(ctx)
	}()

	if r.service.source != nil {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			if err := r.service.source.Run(ctx, r.service.observations); err != nil {
				log.Printf("recognizer source stopped: %v", err)
			}
		}()
	}
	return nil
}

// consume is the single observation consumer; it drains the queue and hands
// each gesture to the approval manager, one at a time.
func (r *Runtime) consume(ctx context.Context) {
	for {
		message, err := r.service.observations.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("failed to consume observation: %v", err)
			continue
		}
		observation := message.T()
		r.service.approval.HandleGesture(ctx, observation.Gesture)
		if err := message.Ack(); err != nil {
			log.Printf("failed to ack observation %v: %v", observation.ID, err)
		}
	}
}

// Submit publishes an observation onto the queue, taking the same path live
// recognizer output does.
func (r *Runtime) Submit(ctx context.Context, g gesture.Gesture) error {
	observation := gesture.Observation{Gesture: g, At: clock.Now()}
	return r.service.observations.Publish(ctx, &observation)
}

// Shutdown stops the consumer loop, the recognizer source and the notice
// listener, waiting for in-flight work or ctx, whichever ends first.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	if !r.started {
		return nil
	}
	r.cancel()
	if r.listener != nil {
		r.listener.Stop()
	}
	r.started = false

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// logNotice is the default notice handler: it renders approval transitions as
// log lines mirroring what the on-screen overlay would show.
func logNotice(e *event.Event[approval.Notice]) {
	notice := e.Data
	switch notice.Topic {
	case approval.TopicAwaitingApproval:
		name := notice.Label
		if name == "" {
			name = notice.Action
		}
		log.Printf("%s detected, show a closed fist to run %q", notice.Gesture, name)
	case approval.TopicPerforming:
		log.Printf("performing %q", notice.Action)
	case approval.TopicPerformed:
		log.Printf("performed %q", notice.Action)
	case approval.TopicFailed:
		log.Printf("action %q failed: %s", notice.Action, notice.Error)
	case approval.TopicCanceled:
		log.Printf("canceled pending %s", notice.Gesture)
	default:
		log.Printf("%s: %s", notice.Topic, notice.Gesture)
	}
}
