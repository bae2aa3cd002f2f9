// Package ranking holds the client for the external ranking service.
//
// The contract is fire-and-forget: RequestUpdate returns immediately and a
// ranked key list arrives later through the update callback; no retry or
// backoff happens here. When the service is unreachable the shelf simply
// keeps showing its previous predictions.
package ranking
