package analytics

import (
	"testing"
	"time"

	"github.com/bruth/a11y/id"
	"github.com/bruth/a11y/testutil"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap/zaptest"
)

func TestNATS(t *testing.T) {
	is := testutil.NewIs(t)

	srv := testutil.RunNatsServer(t)
	nc := testutil.Connect(t, srv)

	sub, err := nc.SubscribeSync("braille.analytics.>")
	is.NoErr(err)

	for _, codecName := range []string{"json", "msgpack"} {
		t.Run(codecName, func(t *testing.T) {
			reg, err := NewRecordRegistry(codecName)
			is.NoErr(err)

			gen := testutil.NewIDGen(id.NUID)
			b, err := NewNATS(nc, false, "braille.analytics", reg, gen, zaptest.NewLogger(t))
			is.NoErr(err)

			firstID := gen.Next()
			exercise(b)
			is.NoErr(b.Close())

			want := []struct {
				subject string
				value   any
			}{
				{"braille.analytics.started", &Started{Device: "Focus 40 Blue", InputCode: CodeEnUEB2, OutputCode: CodeEnUEB1}},
				{"braille.analytics.typing-characters", &TypingCharacters{Count: 12}},
				{"braille.analytics.reading-characters", &ReadingCharacters{Count: 80}},
				{"braille.analytics.input-code", &InputCodeSetting{Code: CodeEnNABCC}},
				{"braille.analytics.output-code", &OutputCodeSetting{Code: CodeEnComp6}},
				{"braille.analytics.word-wrapping", &WordWrappingSetting{Enabled: true}},
			}

			for i, w := range want {
				msg, err := sub.NextMsg(time.Second)
				is.NoErr(err)
				is.Equal(msg.Subject, w.subject)
				if i == 0 {
					is.Equal(msg.Header.Get(nats.MsgIdHdr), firstID)
				}

				v, err := Unpack(reg, msg)
				is.NoErr(err)
				is.Equal(v, w.value)
			}

			// Closed backends drop calls and do not own the connection.
			exercise(b)
			is.NoErr(nc.Flush())
			_, err = sub.NextMsg(50 * time.Millisecond)
			is.Err(err, nats.ErrTimeout)
			is.True(nc.IsConnected())
		})
	}
}

func TestUnpackCodecMismatch(t *testing.T) {
	is := testutil.NewIs(t)

	jsonReg, err := NewRecordRegistry("json")
	is.NoErr(err)
	mpReg, err := NewRecordRegistry("msgpack")
	is.NoErr(err)

	data, err := jsonReg.Marshal(&TypingCharacters{Count: 1})
	is.NoErr(err)

	msg := nats.NewMsg("braille.analytics.typing-characters")
	msg.Data = data
	msg.Header.Set(recordTypeHdr, "typing-characters")
	msg.Header.Set(recordCodecHdr, "json")

	_, err = Unpack(mpReg, msg)
	is.Err(err, nil)

	v, err := Unpack(jsonReg, msg)
	is.NoErr(err)
	is.Equal(v, any(&TypingCharacters{Count: 1}))
}

func TestNewNATSValidation(t *testing.T) {
	is := testutil.NewIs(t)

	reg, _ := NewRecordRegistry("msgpack")

	_, err := NewNATS(nil, false, "braille.analytics", reg, id.NUID, nil)
	is.Err(err, nil)

	nc := testutil.Connect(t, testutil.RunNatsServer(t))
	_, err = NewNATS(nc, false, "", reg, id.NUID, nil)
	is.Err(err, nil)
}
