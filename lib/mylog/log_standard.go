package mylog

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

var severityLevels = map[Severity]logrus.Level{
	SeverityDebug: logrus.DebugLevel,
	SeverityInfo:  logrus.InfoLevel,
	SeverityWarn:  logrus.WarnLevel,
	SeverityError: logrus.ErrorLevel,
}

type standardLogger struct {
	entry *logrus.Entry
}

func newStandardLogger(componentName string) Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return standardLogger{
		entry: logger.WithField("component", componentName),
	}
}

func (l standardLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...interface{}) {
	level, found := severityLevels[severity]
	if !found {
		level = logrus.InfoLevel
	}

	e := l.entry
	if traceLabel != "" {
		e = e.WithField("aggregate", traceLabel)
	}
	e.Log(level, fmt.Sprintf(format, a...))
}
