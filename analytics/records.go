package analytics

import (
	"fmt"

	"github.com/bruth/a11y/types"
	"github.com/nats-io/nats.go"
)

const (
	recordTypeHdr  = "A11y-Record-Type"
	recordCodecHdr = "A11y-Codec"
)

// Record types published by the NATS backend. The registered type name is
// the last subject token.
type (
	Started struct {
		Device     string `json:"device" msgpack:"device"`
		InputCode  Code   `json:"input_code" msgpack:"input_code"`
		OutputCode Code   `json:"output_code" msgpack:"output_code"`
	}

	TypingCharacters struct {
		Count int `json:"count" msgpack:"count"`
	}

	ReadingCharacters struct {
		Count int `json:"count" msgpack:"count"`
	}

	InputCodeSetting struct {
		Code Code `json:"code" msgpack:"code"`
	}

	OutputCodeSetting struct {
		Code Code `json:"code" msgpack:"code"`
	}

	WordWrappingSetting struct {
		Enabled bool `json:"enabled" msgpack:"enabled"`
	}
)

var recordTypes = map[string]*types.Type{
	"started":            {Init: func() any { return &Started{} }},
	"typing-characters":  {Init: func() any { return &TypingCharacters{} }},
	"reading-characters": {Init: func() any { return &ReadingCharacters{} }},
	"input-code":         {Init: func() any { return &InputCodeSetting{} }},
	"output-code":        {Init: func() any { return &OutputCodeSetting{} }},
	"word-wrapping":      {Init: func() any { return &WordWrappingSetting{} }},
}

// NewRecordRegistry returns the registry of analytics record types using
// the named codec.
func NewRecordRegistry(codecName string) (*types.Registry, error) {
	return types.NewRegistry(recordTypes, types.Codec(codecName))
}

// Unpack decodes an analytics record from a NATS message.
func Unpack(r *types.Registry, msg *nats.Msg) (any, error) {
	if c := msg.Header.Get(recordCodecHdr); c != r.Codec().Name() {
		return nil, fmt.Errorf("analytics: record encoded with %q, registry uses %q", c, r.Codec().Name())
	}
	return r.UnmarshalType(msg.Data, msg.Header.Get(recordTypeHdr))
}

// Apply replays a decoded record on b.
func Apply(b BrailleDisplay, record any) error {
	switch r := record.(type) {
	case *Started:
		b.LogStartedEvent(r.Device, r.InputCode, r.OutputCode)
	case *TypingCharacters:
		b.LogTypingBrailleCharacter(r.Count)
	case *ReadingCharacters:
		b.LogReadingBrailleCharacter(r.Count)
	case *InputCodeSetting:
		b.LogBrailleInputCodeSetting(r.Code)
	case *OutputCodeSetting:
		b.LogBrailleOutputCodeSetting(r.Code)
	case *WordWrappingSetting:
		b.LogWordWrappingSetting(r.Enabled)
	default:
		return fmt.Errorf("%w: %T", types.ErrNoTypeForStruct, record)
	}
	return nil
}
