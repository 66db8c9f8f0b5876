package rpc

import (
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
)

// codecName is the name of the passthrough codec. It shadows the proto codec
// so no per-call codec negotiation is needed.
const codecName = "proto"

// rawCodec passes Frame payloads through without interpretation. Non-Frame
// values fall back to proto marshaling so health and reflection traffic on
// the same connection keeps working.
type rawCodec struct{}

// Frame holds raw bytes for passthrough calls.
type Frame struct {
	payload []byte
}

// NewFrame creates a new Frame with the given payload.
func NewFrame(payload []byte) *Frame {
	return &Frame{payload: payload}
}

// Payload returns the frame payload.
func (f *Frame) Payload() []byte {
	return f.payload
}

// Marshal returns the payload bytes.
func (c *rawCodec) Marshal(v interface{}) ([]byte, error) {
	if frame, ok := v.(*Frame); ok {
		return frame.payload, nil
	}
	if msg, ok := v.(proto.Message); ok {
		return proto.Marshal(msg)
	}
	return nil, nil
}

// Unmarshal stores the data in a Frame.
func (c *rawCodec) Unmarshal(data []byte, v interface{}) error {
	if frame, ok := v.(*Frame); ok {
		frame.payload = data
		return nil
	}
	if msg, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, msg)
	}
	return nil
}

// Name returns the codec name.
func (c *rawCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(&rawCodec{})
}
