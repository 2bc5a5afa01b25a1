package slog

import (
	"bytes"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/strictjson"
)

func TestLoggerOrdersAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug}))}

	l.Debug("strictjson.encoder", strictjson.Fields{"b": 2, "a": 1})

	out := buf.String()
	if i, j := strings.Index(out, `"a":1`), strings.Index(out, `"b":2`); i < 0 || j < 0 || i > j {
		t.Fatalf("attrs missing or unordered: %s", out)
	}
}
