package transport

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype under which jsonCodec is registered;
// clients select it per-call with grpc.CallContentSubtype(codecName), and
// the server resolves the matching codec automatically from the
// "application/grpc+json" content-type header grpc-go sends.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements encoding.Codec by delegating to encoding/json,
// standing in for protoc-generated marshaling.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return codecName }
