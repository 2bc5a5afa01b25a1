package zerolog

import (
	"github.com/rs/zerolog"

	"github.com/unkn0wn-root/strictjson"
)

var _ strictjson.Logger = Logger{}

// Logger writes through a zerolog.Logger. Fields are attached with
// Fields(map), so zerolog's own encoder decides their representation.
type Logger struct{ L zerolog.Logger }

func (z Logger) Debug(msg string, f strictjson.Fields) { emit(z.L.Debug(), msg, f) }
func (z Logger) Info(msg string, f strictjson.Fields)  { emit(z.L.Info(), msg, f) }
func (z Logger) Warn(msg string, f strictjson.Fields)  { emit(z.L.Warn(), msg, f) }
func (z Logger) Error(msg string, f strictjson.Fields) { emit(z.L.Error(), msg, f) }

func emit(e *zerolog.Event, msg string, f strictjson.Fields) {
	if len(f) > 0 {
		e = e.Fields(map[string]any(f))
	}
	e.Msg(msg)
}
