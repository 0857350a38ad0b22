// Package telemetry provides the Prometheus metrics and OpenTelemetry tracer
// shared by the reactive runtime, the renderer, the live preview and the
// notes client.
//
// All Metrics methods are safe to call on a nil *Metrics, so packages can
// record unconditionally and callers opt in with New or Default.
//
//	m := telemetry.New(telemetry.WithRegistry(reg), telemetry.WithNamespace("notes"))
//	rt := reactive.NewRuntime(reactive.WithMetrics(m))
package telemetry
