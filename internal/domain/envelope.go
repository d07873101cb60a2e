package domain

import (
	"encoding/json"
	"time"
)

// EnvelopeType discriminates the wire messages sent to peers.
type EnvelopeType string

const (
	TypeInfo      EnvelopeType = "info"
	TypeError     EnvelopeType = "error"
	TypeBroadcast EnvelopeType = "broadcast"
	TypeHeartbeat EnvelopeType = "heartbeat"
)

// Origin identifies who produced the body of a broadcast Envelope.
type Origin string

const (
	OriginClient Origin = "client"
	OriginOllama Origin = "ollama"
)

// Envelope is the wire unit exchanged with peers. Fields beyond Type are
// populated depending on the type; omitted fields are dropped from the JSON.
type Envelope struct {
	Type      EnvelopeType    `json:"type"`
	Message   string          `json:"message,omitempty"`
	Raw       string          `json:"raw,omitempty"`
	Origin    Origin          `json:"origin,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// selfEchoEnvelope is the originator-only variant of a broadcast Envelope.
// Wrapping instead of mutating keeps the shared Envelope safe to serialize
// concurrently for the remaining recipients.
type selfEchoEnvelope struct {
	Envelope
	SelfEcho bool `json:"selfEcho"`
}

// NewInfo builds an informational notice, such as the welcome message.
func NewInfo(message string, now time.Time) *Envelope {
	return &Envelope{
		Type:      TypeInfo,
		Message:   message,
		Timestamp: formatTimestamp(now),
	}
}

// NewClientError builds the private reply for a frame that failed JSON
// decoding. It carries the original raw text so the peer can diagnose it.
func NewClientError(message, raw string) *Envelope {
	return &Envelope{
		Type:    TypeError,
		Message: message,
		Raw:     raw,
	}
}

// NewBroadcast builds a relay Envelope around an already-encoded JSON body.
func NewBroadcast(origin Origin, body json.RawMessage, now time.Time) *Envelope {
	return &Envelope{
		Type:      TypeBroadcast,
		Origin:    origin,
		Timestamp: formatTimestamp(now),
		Body:      body,
	}
}

// NewHeartbeat builds a liveness Envelope.
func NewHeartbeat(now time.Time) *Envelope {
	return &Envelope{
		Type:      TypeHeartbeat,
		Timestamp: formatTimestamp(now),
	}
}

// Encode serializes the Envelope for a regular recipient.
func (e *Envelope) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// EncodeSelfEcho serializes the originator-only variant with the selfEcho
// marker appended. The receiver Envelope is not modified.
func (e *Envelope) EncodeSelfEcho() ([]byte, error) {
	data, err := json.Marshal(selfEchoEnvelope{Envelope: *e, SelfEcho: true})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// formatTimestamp renders an ISO-8601 UTC timestamp, captured at the moment
// the Envelope is constructed for broadcast.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
