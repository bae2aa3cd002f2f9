// Package identity maps item descriptors to stable comparable keys and to
// the external target descriptors used when notifying the ranking service.
//
// All functions are pure. Unrecognized or untrackable item kinds yield
// ok=false rather than errors; callers treat absence as "not trackable."
package identity
