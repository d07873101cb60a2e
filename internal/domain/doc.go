// Package domain defines the wire-level message types exchanged with peers.
//
// The Envelope is the single unit of the socket protocol. Envelopes are
// immutable once constructed; the self-echo variant sent back to a message's
// originator is a separate wrapper, never a mutation of the shared value.
package domain
