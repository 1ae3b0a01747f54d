package botlog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/1siamBot/bwmacro/internal/botlog"
)

type recordingLogger struct {
	infos []string
}

func (r *recordingLogger) Debug(string, ...botlog.Field) {}
func (r *recordingLogger) Info(msg string, fields ...botlog.Field) {
	r.infos = append(r.infos, msg)
}
func (r *recordingLogger) Warn(string, ...botlog.Field)  {}
func (r *recordingLogger) Error(string, ...botlog.Field) {}

func TestSetLoggerRoutesPackageLevelCalls(t *testing.T) {
	rec := &recordingLogger{}
	botlog.SetLogger(rec)
	defer botlog.SetLogger(nil)

	botlog.Info("base ownership flip", botlog.F("base", 1))
	assert.Equal(t, []string{"base ownership flip"}, rec.infos)
}

func TestSetLoggerNilRestoresNoop(t *testing.T) {
	botlog.SetLogger(nil)
	assert.NotPanics(t, func() { botlog.Info("no listeners attached") })
}
