// Package hub implements the peer registry and broadcast fan-out using the
// actor pattern.
//
// A single goroutine owns the connection registry and consumes a typed command
// channel (no mutexes). Per-connection writer goroutines drain a buffered send
// channel, so one slow peer never blocks delivery to the rest. The heartbeat
// is a ticker case in the same select loop, which means it can never observe a
// registry mid-mutation and stops together with the hub.
package hub
