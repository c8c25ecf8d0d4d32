package log

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	scierrors "github.com/YuminosukeSato/ridgepca/pkg/errors"
)

// zerologLogger adapts zerolog.Logger to Logger.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a zerolog-backed Logger writing JSON lines to w.
func NewZerologLogger(w io.Writer, level Level) Logger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// SetupZerologLogger installs a zerolog logger as the package default and
// routes pkg/errors warnings through it as structured records.
func SetupZerologLogger(w io.Writer, level Level) Logger {
	l := NewZerologLogger(w, level).(*zerologLogger)
	SetLogger(l)
	scierrors.SetZerologWarnFunc(func(warning error) {
		l.event(l.zl.Warn(), nil, warning).Msg(warning.Error())
	})
	return l
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// event attaches fields to e. Errors implementing zerolog.LogObjectMarshaler
// are embedded as structured objects.
func (z *zerologLogger) event(e *zerolog.Event, fields []any, embed error) *zerolog.Event {
	if embed != nil {
		var m zerolog.LogObjectMarshaler
		if scierrors.As(embed, &m) {
			e = e.EmbedObject(m)
		}
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	return e
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.event(z.zl.Debug(), fields, nil).Msg(msg)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	z.event(z.zl.Info(), fields, nil).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.event(z.zl.Warn(), fields, nil).Msg(msg)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	var embed error
	for i := 1; i < len(fields); i += 2 {
		if err, ok := fields[i].(error); ok {
			embed = err
			break
		}
	}
	z.event(z.zl.Error(), fields, embed).Msg(msg)
}

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: z.zl.With().Fields(fields).Logger()}
}

func (z *zerologLogger) Enabled(ctx context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}
