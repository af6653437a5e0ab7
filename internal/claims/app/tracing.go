package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

const serviceName = "claims-service"

// initTracing installs the global TracerProvider. Spans are exported over
// OTLP gRPC when OTEL_EXPORTER_OTLP_ENDPOINT is set; otherwise they are
// recorded and dropped.
func (app *Application) initTracing(ctx context.Context) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(BuildVersion),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to build trace resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	endpoint := strings.TrimSpace(app.cfg.OTLPEndpoint)
	if endpoint != "" {
		target, insecure, err := otlpTarget(endpoint, app.cfg.OTLPInsecure)
		if err != nil {
			return err
		}
		expOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(target)}
		if insecure {
			expOpts = append(expOpts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, expOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	app.tracerProvider = sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(app.tracerProvider)

	app.logger.Info("tracing ready", "otlp_endpoint", endpoint)
	return nil
}

// otlpTarget reduces an endpoint URL to the host:port the gRPC exporter
// dials. Plain http endpoints, and any endpoint when insecureOverride is
// set, skip TLS.
func otlpTarget(endpoint string, insecureOverride bool) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q: missing host", endpoint)
	}
	return u.Host, insecureOverride || u.Scheme != "https", nil
}

func (app *Application) shutdownTracing(ctx context.Context) {
	if app.tracerProvider == nil {
		return
	}
	if err := app.tracerProvider.Shutdown(ctx); err != nil {
		app.logger.Error("error shutting down tracer provider", "error", err)
	}
}
