// Package middleware provides gin middleware for the control API.
package middleware
