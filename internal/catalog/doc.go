// Package catalog resolves stable keys into displayable items.
//
// The live catalog holds currently installed items and signals changes. The
// Materializer consults it in ranked order, keeping a fallback cache for
// items temporarily missing from the live view (e.g. suspended apps) so a
// brief catalog gap does not drop an otherwise valid prediction.
package catalog
