// Package logrus adapts a logrus entry to strictjson.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/strictjson"
)

var _ strictjson.Logger = LogrusLogger{}

// LogrusLogger writes through E. A nil E uses the logrus standard logger.
type LogrusLogger struct{ E *logrus.Entry }

// New tags every record with component=strictjson.
func New(l *logrus.Logger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "strictjson")}
}

func (l LogrusLogger) Debug(msg string, f strictjson.Fields) { l.log(logrus.DebugLevel, msg, f) }
func (l LogrusLogger) Info(msg string, f strictjson.Fields)  { l.log(logrus.InfoLevel, msg, f) }
func (l LogrusLogger) Warn(msg string, f strictjson.Fields)  { l.log(logrus.WarnLevel, msg, f) }
func (l LogrusLogger) Error(msg string, f strictjson.Fields) { l.log(logrus.ErrorLevel, msg, f) }

func (l LogrusLogger) log(lvl logrus.Level, msg string, f strictjson.Fields) {
	e := l.E
	if e == nil {
		e = logrus.NewEntry(logrus.StandardLogger())
	}
	if !e.Logger.IsLevelEnabled(lvl) {
		return
	}
	if len(f) > 0 {
		e = e.WithFields(logrus.Fields(f))
	}
	e.Log(lvl, msg)
}
