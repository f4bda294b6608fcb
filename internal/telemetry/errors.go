package telemetry

import "fmt"

// MissingEndpointError is returned when the http trace exporter is selected without an endpoint.
type MissingEndpointError struct {
	EnvVar string
}

func (err MissingEndpointError) Error() string {
	return fmt.Sprintf("the http trace exporter needs an endpoint, set %s", err.EnvVar)
}

// InvalidTraceParentError is returned when the trace parent is not a W3C `version-traceid-spanid-flags` value.
type InvalidTraceParentError struct {
	Value string
}

func (err InvalidTraceParentError) Error() string {
	return fmt.Sprintf("invalid trace parent %q", err.Value)
}

// UnsupportedExporterError is returned for an unknown trace or metric exporter name.
type UnsupportedExporterError struct {
	Kind string
	Name string
}

func (err UnsupportedExporterError) Error() string {
	return fmt.Sprintf("unsupported %s exporter %q", err.Kind, err.Name)
}
