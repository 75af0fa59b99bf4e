// Package analytics records usage of a braille display.
//
// Callers depend on the BrailleDisplay interface and receive a Backend
// from Open at startup, closing it at teardown. Backends never return
// errors to callers; failures are logged.
package analytics

import (
	"errors"
	"io"
)

var (
	ErrUnknownBackend = errors.New("analytics: unknown backend")
)

// BrailleDisplay is the set of braille display analytics entry points.
type BrailleDisplay interface {
	// LogStartedEvent records that a display connected with the given codes.
	LogStartedEvent(device string, inputCode, outputCode Code)

	LogTypingBrailleCharacter(count int)
	LogReadingBrailleCharacter(count int)

	LogBrailleInputCodeSetting(code Code)
	LogBrailleOutputCodeSetting(code Code)
	LogWordWrappingSetting(enabled bool)
}

// Backend is a BrailleDisplay with an explicit lifecycle. Close is
// idempotent; calls made after Close are dropped.
type Backend interface {
	BrailleDisplay
	io.Closer
}

// Nop is a Backend that does nothing, for environments without telemetry.
type Nop struct{}

var _ Backend = Nop{}

func (Nop) LogStartedEvent(string, Code, Code) {}
func (Nop) LogTypingBrailleCharacter(int)      {}
func (Nop) LogReadingBrailleCharacter(int)     {}
func (Nop) LogBrailleInputCodeSetting(Code)    {}
func (Nop) LogBrailleOutputCodeSetting(Code)   {}
func (Nop) LogWordWrappingSetting(bool)        {}
func (Nop) Close() error                       { return nil }
