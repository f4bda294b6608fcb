// Package telemetry records spans and metrics for the work of a run: the run itself, every task action and every
// external command. Without a configured exporter every helper simply calls the measured function.
package telemetry

import (
	"context"
	"io"

	"github.com/cradle-build/cradle/internal/errors"
)

type ctxKey byte

const telemeterContextKey ctxKey = iota

// Telemeter bundles the tracer and the meter of a run. Both may be nil, and so may the Telemeter itself.
type Telemeter struct {
	*Tracer
	*Meter
}

// NewTelemeter builds the exporters selected by opts. A nil opts disables telemetry.
func NewTelemeter(ctx context.Context, appName, appVersion string, writer io.Writer, opts *Options) (*Telemeter, error) {
	if opts == nil {
		opts = &Options{}
	}

	tracer, err := NewTracer(ctx, appName, appVersion, writer, opts)
	if err != nil {
		return nil, err
	}

	meter, err := NewMeter(ctx, appName, appVersion, writer, opts)
	if err != nil {
		return nil, err
	}

	return &Telemeter{Tracer: tracer, Meter: meter}, nil
}

// Collect runs fn inside a span named name and records its duration and outcome as metrics.
func (tlm *Telemeter) Collect(ctx context.Context, name string, attrs map[string]any, fn func(childCtx context.Context) error) error {
	if tlm == nil {
		return fn(ctx)
	}

	return tlm.Trace(ctx, name, attrs, func(ctx context.Context) error {
		return tlm.Time(ctx, name, attrs, fn)
	})
}

// Shutdown flushes pending spans and metrics. The telemeter records nothing afterwards.
func (tlm *Telemeter) Shutdown(ctx context.Context) error {
	if tlm == nil {
		return nil
	}

	errs := &errors.MultiError{}

	if tlm.Tracer != nil && tlm.Tracer.provider != nil {
		errs = errs.Append(tlm.Tracer.provider.Shutdown(ctx))
		tlm.Tracer.provider = nil
	}

	if tlm.Meter != nil && tlm.Meter.provider != nil {
		errs = errs.Append(tlm.Meter.provider.Shutdown(ctx))
		tlm.Meter.provider = nil
	}

	if err := errs.ErrorOrNil(); err != nil {
		return errors.New(err)
	}

	return nil
}

func ContextWithTelemeter(ctx context.Context, tlm *Telemeter) context.Context {
	return context.WithValue(ctx, telemeterContextKey, tlm)
}

// TelemeterFromContext returns the telemeter stored in ctx, or one that records nothing.
func TelemeterFromContext(ctx context.Context) *Telemeter {
	tlm, _ := ctx.Value(telemeterContextKey).(*Telemeter)
	if tlm == nil {
		return &Telemeter{}
	}

	return tlm
}
