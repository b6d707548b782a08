// Package dueldto defines the wire protocol of the maze duel server: the
// event envelope exchanged over the WebSocket and the payloads inside it.
package dueldto

import "encoding/json"

// Envelope is one WebSocket frame: a named event plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope marshals payload into an envelope. A nil payload produces an
// envelope with no data field.
func NewEnvelope(event string, payload any) (Envelope, error) {
	env := Envelope{Event: event}
	if payload == nil {
		return env, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	env.Data = raw
	return env, nil
}
