package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

var logrusLevels = map[zerolog.Level]logrus.Level{
	zerolog.TraceLevel: logrus.TraceLevel,
	zerolog.DebugLevel: logrus.DebugLevel,
	zerolog.InfoLevel:  logrus.InfoLevel,
	zerolog.WarnLevel:  logrus.WarnLevel,
	zerolog.ErrorLevel: logrus.ErrorLevel,
	zerolog.FatalLevel: logrus.FatalLevel,
	zerolog.PanicLevel: logrus.PanicLevel,
}

// LogrusLogger implements Logger on top of sirupsen/logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLoggerTo returns a LogrusLogger writing to w. The level follows
// the process wide level set by Config.Apply.
func NewLogrusLoggerTo(w io.Writer, component string) Logger {
	l := logrus.New()
	l.SetOutput(w)
	if consoleOutput {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	lvl, ok := logrusLevels[zerolog.GlobalLevel()]
	if !ok {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)
	return &LogrusLogger{entry: l.WithField("component", component)}
}

// NewLogrusLogger is NewLogrusLoggerTo writing to stderr.
func NewLogrusLogger(component string) Logger {
	return NewLogrusLoggerTo(os.Stderr, component)
}

func (l *LogrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *LogrusLogger) Debugw(msg string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}
