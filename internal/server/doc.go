// Package server assembles the shelf engine and serves its transports: the
// HTTP control API, the Prometheus metrics endpoint, and the WebSocket
// bridge for shelf UIs.
package server
