package mapper

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/viant/structology/conv"

	"github.com/wavetune/wavetune/extension"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/tracing"
)

// ErrReservedGesture is returned when a binding targets the approval gesture.
var ErrReservedGesture = errors.New("gesture is reserved for approval")

// Binding associates a gesture with a named action. Action is the
// fully-qualified "service.method" reference resolved against the actions
// registry at dispatch time; Args are declarative parameters converted into
// the method's typed input.
type Binding struct {
	Gesture gesture.Gesture        `json:"gesture" yaml:"gesture"`
	Action  string                 `json:"action" yaml:"action"`
	Label   string                 `json:"label,omitempty" yaml:"label,omitempty"`
	Args    map[string]interface{} `json:"args,omitempty" yaml:"args,omitempty"`
}

// Listener is invoked once a dispatched action completes (regardless of
// whether it returned an error or not). Implementations can log, collect
// metrics or perform any other side-effects they require.
type Listener func(binding *Binding, input, output interface{}, err error)

// Service maps gestures onto registered actions and dispatches them. It is
// the only component that touches action services; the approval manager
// only ever asks it to dispatch a gesture.
type Service struct {
	actions   *extension.Actions
	converter *conv.Converter
	bindings  map[gesture.Gesture]*Binding
	listener  Listener
	mux       sync.RWMutex
}

// New creates a new gesture to action mapper backed by the supplied actions
// registry.
func New(actions *extension.Actions, opts ...Option) *Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true

	s := &Service{
		actions:   actions,
		converter: conv.NewConverter(options),
		bindings:  make(map[gesture.Gesture]*Binding),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register stores the binding for its gesture; a later registration for the
// same gesture overwrites the previous one. The approval gesture can never
// be bound.
func (s *Service) Register(binding *Binding) error {
	if binding == nil {
		return errors.New("binding was nil")
	}
	if binding.Gesture == gesture.Approval {
		return fmt.Errorf("%w: %v", ErrReservedGesture, binding.Gesture)
	}
	if !binding.Gesture.Known() {
		return fmt.Errorf("unknown gesture: %q", binding.Gesture)
	}
	if _, _, err := splitAction(binding.Action); err != nil {
		return err
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	s.bindings[binding.Gesture] = binding
	return nil
}

// Lookup returns the binding for the supplied gesture, or nil when absent.
func (s *Service) Lookup(g gesture.Gesture) *Binding {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.bindings[g]
}

// Remove deletes the binding for the supplied gesture if one exists.
func (s *Service) Remove(g gesture.Gesture) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.bindings, g)
}

// Bindings returns a snapshot of all registered bindings.
func (s *Service) Bindings() []*Binding {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]*Binding, 0, len(s.bindings))
	for _, b := range s.bindings {
		out = append(out, b)
	}
	return out
}

// Dispatch looks up the binding for the supplied gesture and, if present,
// invokes the bound action. An unbound gesture is a silent no-op. The
// binding is re-read at call time, so a registry mutation between detection
// and confirmation yields the documented behaviour: latest action, or no-op
// when the entry was removed.
func (s *Service) Dispatch(ctx context.Context, g gesture.Gesture) (err error) {
	binding := s.Lookup(g)
	if binding == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, fmt.Sprintf("mapper.Dispatch %s", binding.Action), "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{
		"gesture.name":  string(binding.Gesture),
		"action.name":   binding.Action,
		"binding.label": binding.Label,
	})

	serviceName, methodName, err := splitAction(binding.Action)
	if err != nil {
		return err
	}
	actionService := s.actions.Lookup(serviceName)
	if actionService == nil {
		return fmt.Errorf("service %v not found", serviceName)
	}
	method, err := actionService.Method(methodName)
	if err != nil {
		return fmt.Errorf("failed to find method %v for service %v: %w", methodName, serviceName, err)
	}
	signature := actionService.Methods().Lookup(methodName)
	if signature == nil {
		return fmt.Errorf("missing signature for %v", binding.Action)
	}

	input, err := s.typedInput(signature.Input, binding.Args)
	if err != nil {
		return err
	}
	output := newInstance(signature.Output)

	err = method(ctx, input, output)
	if s.listener != nil {
		s.listener(binding, input, output, err)
	}
	return err
}

// typedInput materializes the declarative binding args into the method's
// input type.
func (s *Service) typedInput(inputType reflect.Type, args map[string]interface{}) (interface{}, error) {
	instance := newInstance(inputType)
	if len(args) == 0 {
		return instance, nil
	}
	if err := s.converter.Convert(args, instance); err != nil {
		return nil, fmt.Errorf("failed to convert binding args: %w", err)
	}
	return instance, nil
}

func newInstance(aType reflect.Type) interface{} {
	if aType.Kind() == reflect.Ptr {
		return reflect.New(aType.Elem()).Interface()
	}
	return reflect.New(aType).Interface()
}

func splitAction(action string) (service, method string, err error) {
	idx := strings.LastIndex(action, ".")
	if idx <= 0 || idx == len(action)-1 {
		return "", "", fmt.Errorf("invalid action %q, expected service.method", action)
	}
	return action[:idx], action[idx+1:], nil
}
