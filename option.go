package taskly

import (
	"log"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/viant/taskly/event"
	"github.com/viant/taskly/executor"
	"github.com/viant/taskly/tracing"
)

// Option customises the runtime service.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithName names the runtime's executor; the name shows up in events and
// spans.
func WithName(name string) Option {
	return func(s *Service) {
		s.config.Executor.Name = name
	}
}

// WithQueueCapacity bounds the executor task queue.
func WithQueueCapacity(capacity int) Option {
	return func(s *Service) {
		s.config.Executor.QueueCapacity = capacity
	}
}

// WithEventService supplies an externally owned event service; the runtime
// publishes to it but does not close it on Shutdown.
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
		s.ownsEvents = false
	}
}

// WithJournal persists lifecycle events under baseURL with the given codec.
func WithJournal(baseURL string, codec event.Codec) Option {
	return func(s *Service) {
		s.config.Journal = JournalConfig{BaseURL: baseURL, Codec: codec}
	}
}

// WithListener registers a synchronous lifecycle listener on the executor.
func WithListener(listener executor.Listener) Option {
	return func(s *Service) {
		s.listener = listener
	}
}

// WithExecutorOptions lets the caller supply additional options passed to
// executor.New, applied after the ones derived from the configuration.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service. If
// outputFile is empty the stdout exporter is used; otherwise spans are
// written to the supplied file path. The function is safe to call multiple
// times – the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			log.Printf("failed to initialise tracing: %v", err)
		}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, for example OTLP, Jaeger or Zipkin. The function is safe to
// call multiple times – the first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
