// Package ws bridges the shelf engine to connected UIs over WebSocket.
//
// Outbound, the Bridge implements shelf.Listener and streams every slot
// mutation as a JSON op. Inbound, it accepts drag lifecycle messages and
// removal-animation acknowledgements and posts them onto the controller's
// owner loop.
package ws
