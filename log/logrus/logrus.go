// Package logrus adapts sirupsen/logrus to the freshcache Logger interface.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unqo/freshcache"
)

type Logger struct{ E *logrus.Entry }

var _ freshcache.Logger = Logger{}

func (l Logger) Debug(msg string, f freshcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l Logger) Info(msg string, f freshcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l Logger) Warn(msg string, f freshcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l Logger) Error(msg string, f freshcache.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
