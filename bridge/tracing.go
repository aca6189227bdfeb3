package bridge

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracingConfig holds configuration for OpenTelemetry tracing
type TracingConfig struct {
	Enabled     bool   // Whether tracing is enabled
	ServiceName string // Service name for traces
	ZipkinURL   string // Zipkin exporter URL
}

// DefaultTracingConfig returns a default tracing configuration
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Enabled:     false, // Disabled by default
		ServiceName: "sigslot-bridge",
		ZipkinURL:   "http://localhost:9411/api/v2/spans",
	}
}

// SetupOTel initializes OpenTelemetry with a Zipkin exporter for bridge
// observability, tracing signals as they cross onto the bus. If
// config.Enabled is false, returns a no-op tracer.
func SetupOTel(ctx context.Context, config TracingConfig) (trace.Tracer, func(), error) {
	if !config.Enabled {
		tracer := noop.NewTracerProvider().Tracer("sigslot-bridge")
		cleanup := func() {}
		return tracer, cleanup, nil
	}

	exporter, err := zipkin.New(config.ZipkinURL)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String("1.0.0"),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// Set global tracer provider
	otel.SetTracerProvider(tp)

	tracer := tp.Tracer("sigslot-bridge")

	cleanup := func() {
		if err := tp.Shutdown(ctx); err != nil {
			panic(err)
		}
	}

	return tracer, cleanup, nil
}

// TracedPublisher wraps a publisher so every bridged emission records a span.
type TracedPublisher struct {
	publisher message.Publisher
	tracer    trace.Tracer
}

// NewTracedPublisher creates a new publisher with tracing
func NewTracedPublisher(publisher message.Publisher, tracer trace.Tracer) *TracedPublisher {
	return &TracedPublisher{
		publisher: publisher,
		tracer:    tracer,
	}
}

// Publish wraps the publish operation with tracing
func (p *TracedPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		ctx := msg.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		signal := msg.Metadata.Get(metaKeySignal)
		source := msg.Metadata.Get(metaKeySource)

		spanCtx, span := p.tracer.Start(ctx, fmt.Sprintf("bridge.publish.%s", topic),
			trace.WithAttributes(
				attribute.String("messaging.system", "watermill"),
				attribute.String("messaging.operation", "publish"),
				attribute.String("messaging.destination", topic),
				attribute.String("messaging.message_id", msg.UUID),
				attribute.String("signal.name", signal),
				attribute.String("signal.source_node", source),
				attribute.Int("messaging.message_payload_size_bytes", len(msg.Payload)),
			),
		)
		defer span.End()

		// Payload preview for visibility (first 100 chars)
		payloadPreview := string(msg.Payload)
		if len(payloadPreview) > 100 {
			payloadPreview = payloadPreview[:100] + "..."
		}
		span.SetAttributes(attribute.String("messaging.message_payload_preview", payloadPreview))

		msg.SetContext(spanCtx)
	}

	err := p.publisher.Publish(topic, messages...)
	if err != nil {
		for _, msg := range messages {
			if span := trace.SpanFromContext(msg.Context()); span != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		}
	}

	return err
}

// Close closes the underlying publisher
func (p *TracedPublisher) Close() error {
	return p.publisher.Close()
}
