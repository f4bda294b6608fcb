// Package signal cancels a run when the process is interrupted.
package signal

import (
	"context"
	"os"
	ossignal "os/signal"
	"syscall"
)

// ContextCanceledCause is the cause of a context canceled by an interrupt signal.
type ContextCanceledCause struct {
	Signal os.Signal
}

// NewContextCanceledCause returns a new `ContextCanceledCause` instance.
func NewContextCanceledCause(sig os.Signal) *ContextCanceledCause {
	return &ContextCanceledCause{Signal: sig}
}

// Error implements the `Error` method.
func (cause ContextCanceledCause) Error() string {
	return "interrupted by " + cause.Signal.String()
}

// Unwrap implements the `Unwrap` method.
func (ContextCanceledCause) Unwrap() error {
	return context.Canceled
}

// ExitStatus returns the shell convention for a process killed by a signal, 128 plus the signal number.
func (cause ContextCanceledCause) ExitStatus() (int, error) {
	if sig, ok := cause.Signal.(syscall.Signal); ok {
		return 128 + int(sig), nil
	}

	return 1, nil
}

// NotifyContext returns a copy of parent that is canceled with a ContextCanceledCause when one of InterruptSignals
// is received. A second signal is left to the default handler, which terminates the process.
func NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	signals := make(chan os.Signal, 1)
	ossignal.Notify(signals, InterruptSignals...)

	go func() {
		select {
		case sig := <-signals:
			ossignal.Stop(signals)
			cancel(NewContextCanceledCause(sig))
		case <-ctx.Done():
			ossignal.Stop(signals)
		}
	}()

	return ctx, func() {
		cancel(context.Canceled)
	}
}
