package analytics

import (
	"testing"

	"github.com/bruth/a11y/testutil"
)

func exercise(b BrailleDisplay) {
	b.LogStartedEvent("Focus 40 Blue", CodeEnUEB2, CodeEnUEB1)
	b.LogTypingBrailleCharacter(12)
	b.LogReadingBrailleCharacter(80)
	b.LogBrailleInputCodeSetting(CodeEnNABCC)
	b.LogBrailleOutputCodeSetting(CodeEnComp6)
	b.LogWordWrappingSetting(true)
}

func TestNop(t *testing.T) {
	is := testutil.NewIs(t)

	var b Backend = Nop{}

	// Any order, any number of times.
	for i := 0; i < 3; i++ {
		b.LogWordWrappingSetting(false)
		exercise(b)
		b.LogTypingBrailleCharacter(-1)
		b.LogStartedEvent("", CodeUnknown, Code("bogus"))
	}

	is.NoErr(b.Close())
	is.NoErr(b.Close())
	exercise(b)
	is.Equal(b, Backend(Nop{}))
}

func TestCode(t *testing.T) {
	is := testutil.NewIs(t)

	is.True(CodeEnUEB2.Valid())
	is.False(CodeUnknown.Valid())
	is.False(Code("KLINGON").Valid())
	is.Equal(CodeEnUEB2.label(), "EN_UEB_2")
	is.Equal(Code("KLINGON").label(), "unknown")
}
