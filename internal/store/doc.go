// Package store provides the persistent key-value store and the prediction
// cache built on top of it.
//
// The cache blob is newline-delimited StableKey serialization with no
// version field; unparsable lines are dropped silently on load, which keeps
// the format forward compatible.
package store
