// Package telemetry provides OpenTelemetry tracing for mazebatch runs.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "mazebatch"
	serviceVersion = "0.1.0"

	// EnvHoneycombKey carries the Honeycomb API key used to build OTLP headers.
	EnvHoneycombKey = "MAZEBATCH_HONEYCOMB_API_KEY"
	// EnvHoneycombDataset overrides the Honeycomb dataset name.
	EnvHoneycombDataset = "MAZEBATCH_HONEYCOMB_DATASET"
)

// Enabled reports whether an exporter destination has been configured.
// Without one, tracing stays on the global no-op provider.
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" || os.Getenv(EnvHoneycombKey) != ""
}

// Setup initializes OpenTelemetry with an OTLP HTTP exporter.
// It reads configuration from standard OTEL_* environment variables:
//   - OTEL_EXPORTER_OTLP_ENDPOINT: collector endpoint
//   - OTEL_EXPORTER_OTLP_HEADERS: extra headers, e.g. x-honeycomb-team=<api-key>
//
// runID is recorded on the resource so every span of a run can be grouped.
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, runID string) (shutdown func(context.Context) error, err error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	// Own resource rather than merging with Default() to avoid schema URL conflicts
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("service.instance.id", runID),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("telemetry.sdk.name", "opentelemetry"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// ConfigureHoneycombEnv maps the mazebatch Honeycomb variables onto the
// standard OTEL_* variables read by the exporter.
func ConfigureHoneycombEnv() {
	apiKey := os.Getenv(EnvHoneycombKey)
	if apiKey == "" {
		return
	}
	dataset := os.Getenv(EnvHoneycombDataset)
	if dataset == "" {
		dataset = serviceName
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		"x-honeycomb-team="+apiKey+",x-honeycomb-dataset="+dataset)
}

// Tracer returns a named tracer for the given component.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer("mazebatch/" + name)
}

// NoopTracer returns a no-op tracer for use when telemetry is disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer("mazebatch/noop")
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
