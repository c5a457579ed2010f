// Package wire implements envelope framing for the two supported protocol
// variants. The engine selects a codec at construction time and is otherwise
// variant-agnostic.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/uber/ensime-client/src/ensime/model"
)

// Codec encodes outbound requests into wire frames and decodes inbound frames
// into a call id and payload.
type Codec interface {
	// Subprotocols returns the websocket subprotocols to negotiate during the
	// connection handshake. Empty for variants that do not negotiate one.
	Subprotocols() []string
	// EncodeEnvelope wraps a request into the outer envelope for the given call id.
	EncodeEnvelope(callID int, req interface{}) ([]byte, error)
	// DecodeEnvelope splits an inbound frame into its optional call id and
	// optional payload.
	DecodeEnvelope(data []byte) (callID *int, payload json.RawMessage, err error)
}

// encodeEnvelope is the framing shared by both variants.
func encodeEnvelope(callID int, req interface{}) ([]byte, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}
	out, err := json.Marshal(model.Envelope{CallID: callID, Req: raw})
	if err != nil {
		return nil, fmt.Errorf("marshalling envelope: %w", err)
	}
	return out, nil
}

// decodeEnvelope is the inbound parsing shared by both variants.
func decodeEnvelope(data []byte) (*int, json.RawMessage, error) {
	var inbound model.Inbound
	if err := json.Unmarshal(data, &inbound); err != nil {
		return nil, nil, fmt.Errorf("unmarshalling inbound envelope: %w", err)
	}
	if len(inbound.Payload) == 0 || bytes.Equal(inbound.Payload, []byte("null")) {
		return inbound.CallID, nil, nil
	}
	return inbound.CallID, inbound.Payload, nil
}

// V1 is the original protocol variant: no subprotocol negotiation and
// newline-terminated frames.
type V1 struct{}

// NewV1 returns the variant-1 codec.
func NewV1() Codec {
	return V1{}
}

// Subprotocols implements Codec.
func (V1) Subprotocols() []string { return nil }

// EncodeEnvelope implements Codec.
func (V1) EncodeEnvelope(callID int, req interface{}) ([]byte, error) {
	out, err := encodeEnvelope(callID, req)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// DecodeEnvelope implements Codec.
func (V1) DecodeEnvelope(data []byte) (*int, json.RawMessage, error) {
	return decodeEnvelope(bytes.TrimRight(data, "\n"))
}

// V2 negotiates the "jerky" subprotocol during the websocket handshake and
// exchanges bare JSON frames.
type V2 struct{}

// NewV2 returns the variant-2 codec.
func NewV2() Codec {
	return V2{}
}

// Subprotocols implements Codec.
func (V2) Subprotocols() []string { return []string{"jerky"} }

// EncodeEnvelope implements Codec.
func (V2) EncodeEnvelope(callID int, req interface{}) ([]byte, error) {
	return encodeEnvelope(callID, req)
}

// DecodeEnvelope implements Codec.
func (V2) DecodeEnvelope(data []byte) (*int, json.RawMessage, error) {
	return decodeEnvelope(data)
}
