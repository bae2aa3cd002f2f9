// Package types defines the shared data model for the predicted shelf:
// item descriptors, stable keys, resolved items, and screen locations.
//
// Types here carry no behavior beyond construction, equality, and
// serialization; the reconciliation logic lives in internal/shelf.
package types
