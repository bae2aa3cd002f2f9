// Package monitoring exposes Prometheus metrics for the reconciliation
// engine and its transports.
package monitoring
