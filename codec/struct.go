package codec

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	JSON    Codec = &jsonCodec{}
	MsgPack Codec = &msgpackCodec{}
)

type jsonCodec struct{}

func (*jsonCodec) Name() string {
	return "json"
}

func (*jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal treats empty input as the zero value.
func (*jsonCodec) Unmarshal(b []byte, v interface{}) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

// msgpackCodec encodes integers in their smallest form, which keeps
// uptime stamps and counters compact.
type msgpackCodec struct{}

func (*msgpackCodec) Name() string {
	return "msgpack"
}

func (*msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	defer msgpack.PutEncoder(enc)

	enc.Reset(&buf)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (*msgpackCodec) Unmarshal(b []byte, v interface{}) error {
	return msgpack.Unmarshal(b, v)
}
