package telemetry

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/cradle-build/cradle/internal/errors"
)

// Metric exporter names.
const (
	MetricExporterNone     = "none"
	MetricExporterConsole  = "console"
	MetricExporterOTLPHTTP = "otlpHttp"
	MetricExporterGrpcHTTP = "grpcHttp"

	metricExportInterval = time.Second
)

// Meter records durations and counters through an SDK provider.
type Meter struct {
	metric.Meter
	provider *sdkmetric.MeterProvider
}

// NewMeter returns nil when opts selects no metric exporter.
func NewMeter(ctx context.Context, appName, appVersion string, writer io.Writer, opts *Options) (*Meter, error) {
	exporter, err := newMetricExporter(ctx, writer, opts)
	if err != nil || exporter == nil {
		return nil, err
	}

	res, err := newResource(appName, appVersion)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(metricExportInterval))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	return &Meter{Meter: provider.Meter(appName), provider: provider}, nil
}

func newMetricExporter(ctx context.Context, writer io.Writer, opts *Options) (sdkmetric.Exporter, error) {
	switch opts.MetricExporter {
	case "", MetricExporterNone:
		return nil, nil
	case MetricExporterConsole:
		return stdoutmetric.New(stdoutmetric.WithWriter(writer))
	case MetricExporterOTLPHTTP:
		var httpOpts []otlpmetrichttp.Option
		if opts.MetricExporterInsecureEndpoint {
			httpOpts = append(httpOpts, otlpmetrichttp.WithInsecure())
		}

		return otlpmetrichttp.New(ctx, httpOpts...)
	case MetricExporterGrpcHTTP:
		var grpcOpts []otlpmetricgrpc.Option
		if opts.MetricExporterInsecureEndpoint {
			grpcOpts = append(grpcOpts, otlpmetricgrpc.WithInsecure())
		}

		return otlpmetricgrpc.New(ctx, grpcOpts...)
	}

	return nil, errors.New(UnsupportedExporterError{Kind: "metric", Name: opts.MetricExporter})
}

// Time records the duration of fn in the `<name>_duration` histogram, in milliseconds, then counts the call in
// `<name>_success_count` or `<name>_errors_count`.
func (meter *Meter) Time(ctx context.Context, name string, attrs map[string]any, fn func(childCtx context.Context) error) error {
	if meter == nil || meter.provider == nil {
		return fn(ctx)
	}

	name = CleanMetricName(name)
	started := time.Now()

	err := fn(ctx)

	if histogram, histErr := meter.Int64Histogram(name+"_duration", metric.WithUnit("ms")); histErr == nil {
		histogram.Record(ctx, time.Since(started).Milliseconds(), metric.WithAttributes(toAttributes(attrs)...))
	}

	outcome := "_success"
	if err != nil {
		outcome = "_errors"
	}

	meter.Count(ctx, name+outcome, 1, attrs)

	return err
}

// Count adds value to the `<name>_count` counter.
func (meter *Meter) Count(ctx context.Context, name string, value int64, attrs map[string]any) {
	if meter == nil || meter.provider == nil {
		return
	}

	if counter, err := meter.Int64Counter(CleanMetricName(name + "_count")); err == nil {
		counter.Add(ctx, value, metric.WithAttributes(toAttributes(attrs)...))
	}
}
