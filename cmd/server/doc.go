// Package main is the entry point for the hotshelf backend.
//
// The service owns the predicted-shelf state for a launcher host: it keeps
// a fixed grid of shelf slots reconciled against ranked predictions from an
// external ranking service, while never displacing items the user placed
// themselves.
//
// The server provides:
//   - REST control API for the launcher host (layout sync, pin, pause,
//     capacity changes, catalog feed)
//   - WebSocket streaming of slot operations to shelf UIs
//   - Prometheus metrics
//
// Configuration is environment-driven (12-factor); see the config package
// for variables and defaults.
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown
package main
