package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

var (
	ProtoBuf Codec = &protoBufCodec{
		marshal: proto.MarshalOptions{Deterministic: true},
	}
)

type protoBufCodec struct {
	marshal proto.MarshalOptions
}

func (*protoBufCodec) Name() string {
	return "protobuf"
}

func asMessage(v interface{}) (proto.Message, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a proto.Message", proto.Error, v)
	}
	return m, nil
}

func (c *protoBufCodec) Marshal(v interface{}) ([]byte, error) {
	m, err := asMessage(v)
	if err != nil {
		return nil, err
	}
	return c.marshal.Marshal(m)
}

func (*protoBufCodec) Unmarshal(b []byte, v interface{}) error {
	m, err := asMessage(v)
	if err != nil {
		return err
	}
	return proto.Unmarshal(b, m)
}
