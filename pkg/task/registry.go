package task

import "context"

// Registrar accepts named tasks so they can be requested by name.
type Registrar interface {
	Register(tasks ...*Task) error
}

type ctxKey byte

const registrarContextKey ctxKey = iota

// ContextWithRegistrar returns a context carrying the registrar used by actions that create named tasks
// at execution time.
func ContextWithRegistrar(ctx context.Context, registrar Registrar) context.Context {
	return context.WithValue(ctx, registrarContextKey, registrar)
}

// RegistrarFromContext returns the registrar stored in ctx, or nil.
func RegistrarFromContext(ctx context.Context) Registrar {
	if registrar, ok := ctx.Value(registrarContextKey).(Registrar); ok {
		return registrar
	}

	return nil
}

// Register registers the given tasks with the registrar carried by ctx. Anonymous tasks and contexts
// without a registrar are ignored.
func Register(ctx context.Context, tasks ...*Task) error {
	registrar := RegistrarFromContext(ctx)
	if registrar == nil {
		return nil
	}

	return registrar.Register(tasks...)
}
