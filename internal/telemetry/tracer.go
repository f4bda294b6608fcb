package telemetry

import (
	"context"
	"io"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/cradle-build/cradle/internal/errors"
)

// Trace exporter names.
const (
	TraceExporterNone     = "none"
	TraceExporterConsole  = "console"
	TraceExporterOTLPHTTP = "otlpHttp"
	TraceExporterOTLPGrpc = "otlpGrpc"
	TraceExporterHTTP     = "http"

	traceEndpointEnvVar = "CRADLE_TELEMETRY_TRACE_EXPORTER_HTTP_ENDPOINT"
)

// Tracer opens spans through an SDK provider. Top-level spans become children of the remote parent, if any.
type Tracer struct {
	trace.Tracer
	provider *sdktrace.TracerProvider
	parent   trace.SpanContext
}

// NewTracer returns nil when opts selects no trace exporter.
func NewTracer(ctx context.Context, appName, appVersion string, writer io.Writer, opts *Options) (*Tracer, error) {
	if opts.TraceExporter == "" || opts.TraceExporter == TraceExporterNone {
		return nil, nil
	}

	var (
		parent trace.SpanContext
		err    error
	)

	if opts.TraceParent != "" {
		if parent, err = ParseTraceParent(opts.TraceParent); err != nil {
			return nil, err
		}
	}

	exporter, err := newSpanExporter(ctx, writer, opts)
	if err != nil || exporter == nil {
		return nil, err
	}

	res, err := newResource(appName, appVersion)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res))
	otel.SetTracerProvider(provider)

	return &Tracer{Tracer: provider.Tracer(appName), provider: provider, parent: parent}, nil
}

// ParseTraceParent parses a W3C traceparent header value into a remote span context.
func ParseTraceParent(value string) (trace.SpanContext, error) {
	fields := strings.Split(value, "-")
	if len(fields) != 4 { //nolint:mnd
		return trace.SpanContext{}, errors.New(InvalidTraceParentError{Value: value})
	}

	traceID, err := trace.TraceIDFromHex(fields[1])
	if err != nil {
		return trace.SpanContext{}, errors.New(InvalidTraceParentError{Value: value})
	}

	spanID, err := trace.SpanIDFromHex(fields[2])
	if err != nil {
		return trace.SpanContext{}, errors.New(InvalidTraceParentError{Value: value})
	}

	var flags trace.TraceFlags
	if fields[3] != "00" {
		flags = trace.FlagsSampled
	}

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}), nil
}

func newSpanExporter(ctx context.Context, writer io.Writer, opts *Options) (sdktrace.SpanExporter, error) {
	var httpOpts []otlptracehttp.Option

	switch opts.TraceExporter {
	case "", TraceExporterNone:
		return nil, nil
	case TraceExporterConsole:
		return stdouttrace.New(stdouttrace.WithWriter(writer))
	case TraceExporterOTLPGrpc:
		var grpcOpts []otlptracegrpc.Option
		if opts.TraceExporterInsecureEndpoint {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}

		return otlptracegrpc.New(ctx, grpcOpts...)
	case TraceExporterHTTP:
		if opts.TraceExporterHTTPEndpoint == "" {
			return nil, errors.New(MissingEndpointError{EnvVar: traceEndpointEnvVar})
		}

		httpOpts = append(httpOpts, otlptracehttp.WithEndpoint(opts.TraceExporterHTTPEndpoint))

		fallthrough
	case TraceExporterOTLPHTTP:
		if opts.TraceExporterInsecureEndpoint {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}

		return otlptracehttp.New(ctx, httpOpts...)
	}

	return nil, errors.New(UnsupportedExporterError{Kind: "trace", Name: opts.TraceExporter})
}

// Trace runs fn inside a span named name. A failure of fn marks the span as failed.
func (tracer *Tracer) Trace(ctx context.Context, name string, attrs map[string]any, fn func(childCtx context.Context) error) error {
	if tracer == nil || tracer.provider == nil {
		return fn(ctx)
	}

	if tracer.parent.IsValid() && !trace.SpanContextFromContext(ctx).IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, tracer.parent)
	}

	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func newResource(appName, appVersion string) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(appName),
		semconv.ServiceVersion(appVersion),
	))
	if err != nil {
		return nil, errors.New(err)
	}

	return res, nil
}
