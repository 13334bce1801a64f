package wavetune

import (
	"context"
	"fmt"

	"github.com/viant/x"

	"github.com/wavetune/wavetune/config"
	"github.com/wavetune/wavetune/extension"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/model/types"
	"github.com/wavetune/wavetune/policy"
	"github.com/wavetune/wavetune/service/approval"
	"github.com/wavetune/wavetune/service/event"
	"github.com/wavetune/wavetune/service/mapper"
	"github.com/wavetune/wavetune/service/messaging"
	mmemory "github.com/wavetune/wavetune/service/messaging/memory"
	"github.com/wavetune/wavetune/service/player/spotify"
	"github.com/wavetune/wavetune/service/recognizer"
)

// Service assembles the gesture control pipeline: recognition source,
// observation queue, gesture mapper, approval manager and notice delivery.
type Service struct {
	runtime *Runtime

	config            *config.Config
	actions           *extension.Actions
	extensionTypes    []*x.Type
	extensionServices []types.Service
	mapper            *mapper.Service
	mapperListener    mapper.Listener
	approval          *approval.Manager
	policy            *policy.Policy
	tokens            spotify.TokenSource
	source            recognizer.Source
	observations      messaging.Queue[gesture.Observation]
	notices           messaging.Queue[event.Event[approval.Notice]]
	noticeHandler     func(*event.Event[approval.Notice])
}

// New assembles a service from the supplied options. Bindings carried by the
// configuration are registered eagerly so that a malformed one fails startup
// rather than the first dispatch.
func New(options ...Option) (*Service, error) {
	s := &Service{runtime: &Runtime{}}
	s.runtime.service = s
	if err := s.init(options); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	s.actions = extension.NewActions(s.extensionTypes...)
	if playback := s.playbackService(); playback != nil {
		s.actions.Register(playback)
	}
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}

	var mapperOptions []mapper.Option
	if s.mapperListener != nil {
		mapperOptions = append(mapperOptions, mapper.WithListener(s.mapperListener))
	}
	s.mapper = mapper.New(s.actions, mapperOptions...)
	for _, binding := range s.config.Bindings {
		if err := s.mapper.Register(binding); err != nil {
			return fmt.Errorf("invalid binding for %v: %w", binding.Gesture, err)
		}
	}

	s.approval = approval.New(s.mapper,
		approval.WithPolicy(s.policy),
		approval.WithNotices(event.NewPublisher(s.notices)))
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = &config.Config{}
	}
	if s.policy == nil {
		s.policy = policy.FromConfig(s.config.Policy)
	}
	if s.observations == nil {
		queueConfig := mmemory.DefaultConfig()
		if s.config.Queue.Buffer > 0 {
			queueConfig.QueueBuffer = s.config.Queue.Buffer
		}
		s.observations = mmemory.NewQueue[gesture.Observation](queueConfig)
	}
	if s.notices == nil {
		s.notices = mmemory.NewQueue[event.Event[approval.Notice]](mmemory.DefaultConfig())
	}
	if s.noticeHandler == nil {
		s.noticeHandler = logNotice
	}
	if s.source == nil && s.config.Recognizer.Command != "" {
		var opts []recognizer.Option
		if len(s.config.Recognizer.Args) > 0 {
			opts = append(opts, recognizer.WithArgs(s.config.Recognizer.Args...))
		}
		if s.config.Recognizer.Dir != "" {
			opts = append(opts, recognizer.WithDir(s.config.Recognizer.Dir))
		}
		if s.config.Recognizer.MinConfidence > 0 {
			opts = append(opts, recognizer.WithMinConfidence(s.config.Recognizer.MinConfidence))
		}
		s.source = recognizer.New(s.config.Recognizer.Command, opts...)
	}
}

// playbackService builds the spotify action service when a token source or a
// credential resource is configured.
func (s *Service) playbackService() types.Service {
	tokens := s.tokens
	if tokens == nil && s.config.Spotify.CredentialsURL != "" {
		tokens = spotify.NewCredentialTokenSource(s.config.Spotify.CredentialsURL, s.config.Spotify.CredentialsKey)
	}
	if tokens == nil {
		return nil
	}
	return spotify.New(tokens)
}

// RegisterExtensionTypes registers action input/output types by name.
func (s *Service) RegisterExtensionTypes(types ...*x.Type) {
	for i := range types {
		s.actions.Types().Register(types[i])
	}
}

// RegisterExtensionServices registers additional action services.
func (s *Service) RegisterExtensionServices(services ...types.Service) {
	for i := range services {
		s.actions.Register(services[i])
	}
}

// Mapper returns the gesture to action mapper.
func (s *Service) Mapper() *mapper.Service {
	return s.mapper
}

// Approval returns the approval manager.
func (s *Service) Approval() *approval.Manager {
	return s.approval
}

// Actions returns the action service registry.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Runtime returns the service runtime.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// HandleGesture feeds a single gesture synchronously, bypassing the queue.
// Intended for tests and direct embedding.
func (s *Service) HandleGesture(ctx context.Context, g gesture.Gesture) {
	s.approval.HandleGesture(ctx, g)
}
