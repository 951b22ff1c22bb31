package protocol

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	ErrMalformedFrame = errors.New("malformed frame")
	ErrNoDiscriminant = errors.New("frame has no event_type")
)

// ParseEnvelope decodes a raw socket frame. Frames that are not JSON objects
// or lack an event_type are rejected; the caller drops them silently.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, ErrMalformedFrame
	}
	if env.EventType == "" {
		return Envelope{}, ErrNoDiscriminant
	}
	return env, nil
}

// DecodePayload unmarshals an envelope payload into dst and validates it.
// dst must be a pointer to a payload struct from this package.
func DecodePayload(env Envelope, dst interface{}) error {
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return ErrMalformedFrame
	}
	if err := validate.Struct(dst); err != nil {
		return ErrMalformedFrame
	}
	return nil
}

// Marshal builds the bytes for an outbound frame.
func Marshal(eventType string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{EventType: eventType, Data: payload})
}
