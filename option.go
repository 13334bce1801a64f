package wavetune

import (
	"github.com/viant/x"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/wavetune/wavetune/config"
	"github.com/wavetune/wavetune/model/gesture"
	"github.com/wavetune/wavetune/model/types"
	"github.com/wavetune/wavetune/policy"
	"github.com/wavetune/wavetune/service/approval"
	"github.com/wavetune/wavetune/service/event"
	"github.com/wavetune/wavetune/service/mapper"
	"github.com/wavetune/wavetune/service/messaging"
	"github.com/wavetune/wavetune/service/player/spotify"
	"github.com/wavetune/wavetune/service/recognizer"
	"github.com/wavetune/wavetune/tracing"
)

// Option customizes the service assembly.
type Option func(s *Service)

// WithConfig supplies the declarative configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithPolicy overrides the approval policy derived from the configuration.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithObservationQueue sets the observation queue.
func WithObservationQueue(queue messaging.Queue[gesture.Observation]) Option {
	return func(s *Service) {
		s.observations = queue
	}
}

// WithNoticeQueue sets the queue transition notices are published on.
func WithNoticeQueue(queue messaging.Queue[event.Event[approval.Notice]]) Option {
	return func(s *Service) {
		s.notices = queue
	}
}

// WithNoticeHandler replaces the default log-based notice rendering.
func WithNoticeHandler(handler func(*event.Event[approval.Notice])) Option {
	return func(s *Service) {
		s.noticeHandler = handler
	}
}

// WithSource sets the recognition source feeding the observation queue.
func WithSource(source recognizer.Source) Option {
	return func(s *Service) {
		s.source = source
	}
}

// WithTokenSource sets the token source the spotify action service uses.
func WithTokenSource(tokens spotify.TokenSource) Option {
	return func(s *Service) {
		s.tokens = tokens
	}
}

// WithExtensionTypes registers action input/output types.
func WithExtensionTypes(types ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = types
	}
}

// WithExtensionServices registers additional action services.
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithMapperListener sets the listener invoked after every dispatched action.
func WithMapperListener(listener mapper.Listener) Option {
	return func(s *Service) {
		s.mapperListener = listener
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file path. The function is
// safe to call multiple times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter. This enables
// integrations with exporters other than the built-in stdout exporter, for example OTLP, Jaeger or
// Zipkin. The function is safe to call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
