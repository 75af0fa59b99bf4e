package codec

import (
	"encoding"
	"fmt"
)

var (
	Binary Codec = &binaryCodec{}
)

// binaryCodec passes pre-encoded bytes through untouched.
type binaryCodec struct{}

func (*binaryCodec) Name() string {
	return "binary"
}

func (*binaryCodec) Marshal(v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case encoding.BinaryMarshaler:
		return x.MarshalBinary()
	case []byte:
		return x, nil
	case *[]byte:
		return *x, nil
	}
	return nil, fmt.Errorf("binary: cannot marshal %T", v)
}

func (*binaryCodec) Unmarshal(b []byte, v interface{}) error {
	switch x := v.(type) {
	case encoding.BinaryUnmarshaler:
		return x.UnmarshalBinary(b)
	case *[]byte:
		// Copy so later changes to b are not observed.
		*x = append((*x)[:0], b...)
		return nil
	}
	return fmt.Errorf("binary: cannot unmarshal into %T", v)
}
