package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

type testAppender struct {
	tb  testing.TB
	enc zapcore.Encoder
}

// NewTestAppender returns an appender that writes each entry through tb.Log, so output is grouped
// under the test that produced it.
func NewTestAppender(tb testing.TB) Appender {
	return &testAppender{tb: tb, enc: newLineEncoder()}
}

func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	buf, err := tapp.enc.EncodeEntry(entry, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	tapp.tb.Log(strings.TrimSuffix(buf.String(), "\n"))
	return nil
}

func (tapp *testAppender) Sync() error {
	return nil
}
