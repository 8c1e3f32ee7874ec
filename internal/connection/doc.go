// Package connection owns the realtime transport lifecycle for one client
// session.
//
// The Manager is the single writer of connection state. It authenticates,
// dials, detects transport failure, reconnects with exponential backoff, and
// replays the client-owned room membership set on every successful
// (re)connection before the session is considered warm. Inbound frames are
// forwarded untouched to the dispatcher; the Manager reads only the room
// field of the envelope so it can drop events for rooms the client no longer
// wants.
//
// Delivery note: the wire protocol has no sequence numbers on most event
// kinds, so a reconnect may replay events the client already applied. The
// state reducers are written to tolerate that (wholesale-replacement slices
// are idempotent; additive slices guard on entity id where one exists).
package connection
