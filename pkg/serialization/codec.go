package serialization

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec is the pluggable value <-> bytes contract.
// PRINCIPLES:
// - ISP: simple interface with ≤3 methods
// - SRP: single responsibility for encoding
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Name() string
}

// jsonCodec encodes via encoding/json. Human-readable, interoperable.
type jsonCodec struct{}

func (jsonCodec) Encode(v any) ([]byte, error)    { return json.Marshal(v) }
func (jsonCodec) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                    { return "json" }

// msgpackCodec encodes via MessagePack. Compact, the default for
// checkpoint blobs.
type msgpackCodec struct{}

func (msgpackCodec) Encode(v any) ([]byte, error)    { return msgpack.Marshal(v) }
func (msgpackCodec) Decode(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (msgpackCodec) Name() string                    { return "msgpack" }

// NewJSONCodec creates a JSON codec.
func NewJSONCodec() Codec { return jsonCodec{} }

// NewMsgPackCodec creates a MessagePack codec.
func NewMsgPackCodec() Codec { return msgpackCodec{} }
