package log

import (
	"bytes"

	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zapcore"
)

var _ zapcore.WriteSyncer = testWriteSyncer{}

// testWriteSyncer 把日志逐行转发到 t.Logf，写法参考 zaptest.Logger。
type testWriteSyncer struct {
	t        zaptest.TestingT
	failTest bool
}

func (w testWriteSyncer) Write(p []byte) (int, error) {
	// t.Logf 自带换行
	w.t.Logf("%s", bytes.TrimRight(p, "\n"))
	if w.failTest {
		w.t.Fail()
	}
	return len(p), nil
}

func (w testWriteSyncer) Sync() error {
	return nil
}
