// Package logger adapts zerolog to the ports.Logger interface.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// ZeroLogger routes structured log events to zerolog.
type ZeroLogger struct {
	log zerolog.Logger
}

// New creates a ZeroLogger writing to stderr at the given level. Unparseable
// levels fall back to warn so a bad config never silences errors.
func New(level string) *ZeroLogger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.WarnLevel
	}
	return &ZeroLogger{
		log: zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Logger(),
	}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error, fields map[string]interface{}) {
	l.log.Error().Err(err).Fields(fields).Msg(msg)
}
