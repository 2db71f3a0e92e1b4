// Package zerolog adapts rs/zerolog to the freshcache Logger interface.
package zerolog

import (
	"github.com/rs/zerolog"

	"github.com/unqo/freshcache"
)

type Logger struct{ L zerolog.Logger }

var _ freshcache.Logger = Logger{}

func (z Logger) Debug(msg string, f freshcache.Fields) {
	z.L.Debug().Fields(map[string]any(f)).Msg(msg)
}
func (z Logger) Info(msg string, f freshcache.Fields) {
	z.L.Info().Fields(map[string]any(f)).Msg(msg)
}
func (z Logger) Warn(msg string, f freshcache.Fields) {
	z.L.Warn().Fields(map[string]any(f)).Msg(msg)
}
func (z Logger) Error(msg string, f freshcache.Fields) {
	z.L.Error().Fields(map[string]any(f)).Msg(msg)
}
