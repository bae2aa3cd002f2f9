// Package logging provides the structured logger used across the service,
// a thin wrapper over zap with production and development presets.
package logging
