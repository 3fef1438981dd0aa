// Package telemetry provides OpenTelemetry instrumentation for forge.
//
// It manages a TracerProvider and MeterProvider backed by OTLP exporters
// (gRPC or HTTP) and shuts them down gracefully. Telemetry is disabled by
// default; forge is a short-lived CLI and most runs have no collector to
// talk to.
//
// Create an instance from the resolved app config:
//
//	tel, err := telemetry.New(ctx, telemetry.FromApp(cfg.Telemetry, version))
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	tracer := tel.Tracer("forge.orchestrator")
//	ctx, span := tracer.Start(ctx, "phase.components")
//	defer span.End()
//
// Telemetry failures never fail a run. If an exporter cannot be created the
// instance marks itself degraded and hands out no-op providers.
//
// For tests, NewTestTelemetry records spans and metrics in memory.
package telemetry
