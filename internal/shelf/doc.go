// Package shelf implements the predicted-shelf reconciliation engine.
//
// The Surface models the fixed-capacity slot grid the host renders. The
// Reconciler converges it to a ranked candidate list without touching
// user-owned slots. The Gate decides when reconciliation may run, and the
// Controller ties the pieces together on a single owner loop, observing
// user actions and informing the ranking service.
//
// All shelf state is confined to the controller's loop goroutine; external
// events (ranking deliveries, catalog changes, transport messages) are
// posted onto it and never mutate state concurrently.
package shelf
