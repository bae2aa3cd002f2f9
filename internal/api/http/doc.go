// Package http exposes the shelf control API.
//
// Handlers marshal every call onto the controller's owner loop and wait for
// the reply, so responses always observe a consistent shelf snapshot and
// mutations are applied in arrival order.
package http
