package awsconfig

import (
	"github.com/aws/smithy-go/logging"
	"go.uber.org/zap"
)

// Logger forwards AWS SDK client logs to a zap logger.
type Logger struct {
	log *zap.SugaredLogger
}

var _ logging.Logger = (*Logger)(nil)

func NewLogger(log *zap.SugaredLogger) *Logger {
	return &Logger{log: log.Named("aws")}
}

func (l *Logger) Logf(classification logging.Classification, format string, v ...interface{}) {
	if classification == logging.Warn {
		l.log.Warnf(format, v...)
		return
	}
	l.log.Debugf(format, v...)
}
