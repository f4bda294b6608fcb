package telemetry

// Options configures trace and metric exporters.
type Options struct {
	// TraceExporter is one of none, console, otlpHttp, otlpGrpc, http.
	TraceExporter string
	// TraceExporterHTTPEndpoint is required by the http exporter.
	TraceExporterHTTPEndpoint     string
	TraceParent                   string
	TraceExporterInsecureEndpoint bool

	// MetricExporter is one of none, console, otlpHttp, grpcHttp.
	MetricExporter                 string
	MetricExporterInsecureEndpoint bool
}
