// Package spotify exposes Spotify Web API playback operations as an action
// service so gesture bindings can reference them by "spotify.<method>" name.
package spotify

import (
	"context"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/wavetune/wavetune/model/types"
)

const Name = "spotify"

// Service implements playback control over the Spotify Web API.
type Service struct {
	client *client

	mux           sync.Mutex
	preMuteVolume int
}

// New creates a spotify action service with the supplied token source.
func New(tokens TokenSource, opts ...Option) *Service {
	s := &Service{client: newClient(tokens)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Option customizes the spotify service.
type Option func(*Service)

// WithBaseURL overrides the Web API endpoint (tests point it at a local
// server).
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.client.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Service) {
		s.client.httpClient = httpClient
	}
}

// Name returns the service name
func (s *Service) Name() string {
	return Name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:   "like",
			Input:  reflect.TypeOf(&LikeInput{}),
			Output: reflect.TypeOf(&LikeOutput{}),
		},
		{
			Name:   "next",
			Input:  reflect.TypeOf(&NextInput{}),
			Output: reflect.TypeOf(&NextOutput{}),
		},
		{
			Name:   "pause",
			Input:  reflect.TypeOf(&PauseInput{}),
			Output: reflect.TypeOf(&PauseOutput{}),
		},
		{
			Name:   "volumeUp",
			Input:  reflect.TypeOf(&VolumeInput{}),
			Output: reflect.TypeOf(&VolumeOutput{}),
		},
		{
			Name:   "volumeDown",
			Input:  reflect.TypeOf(&VolumeInput{}),
			Output: reflect.TypeOf(&VolumeOutput{}),
		},
		{
			Name:   "mute",
			Input:  reflect.TypeOf(&MuteInput{}),
			Output: reflect.TypeOf(&VolumeOutput{}),
		},
		{
			Name:   "unmute",
			Input:  reflect.TypeOf(&UnmuteInput{}),
			Output: reflect.TypeOf(&VolumeOutput{}),
		},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "like":
		return s.like, nil
	case "next":
		return s.next, nil
	case "pause":
		return s.pause, nil
	case "volumeup":
		return s.volumeUp, nil
	case "volumedown":
		return s.volumeDown, nil
	case "mute":
		return s.mute, nil
	case "unmute":
		return s.unmute, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) like(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*LikeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*LikeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Like(ctx, input, output)
}

func (s *Service) next(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*NextInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*NextOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Next(ctx, input, output)
}

func (s *Service) pause(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*PauseInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*PauseOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Pause(ctx, input, output)
}

func (s *Service) volumeUp(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*VolumeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*VolumeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.VolumeUp(ctx, input, output)
}

func (s *Service) volumeDown(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*VolumeInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*VolumeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.VolumeDown(ctx, input, output)
}

func (s *Service) mute(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*MuteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*VolumeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Mute(ctx, input, output)
}

func (s *Service) unmute(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*UnmuteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*VolumeOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	return s.Unmute(ctx, input, output)
}
