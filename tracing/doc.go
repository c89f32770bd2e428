// Package tracing wraps OpenTelemetry for the kernel runtime: spans around
// runtime operations and CPU loops, and lifecycle events recorded on the boot
// span.
package tracing
