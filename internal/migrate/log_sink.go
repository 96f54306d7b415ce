package migrate

import (
	"measurement-migrator/internal/diagnostic"
	"measurement-migrator/internal/logger"
)

// logSink mirrors diagnostics into the structured log at the matching level.
type logSink struct {
	log logger.Logger
}

var _ diagnostic.Sink = logSink{}

func (s logSink) Info(msg string) { s.log.Info(msg, severity(diagnostic.SeverityInfo)) }

func (s logSink) Warn(msg string) { s.log.Warn(msg, severity(diagnostic.SeverityWarning)) }

func (s logSink) Error(msg string) { s.log.Error(msg, severity(diagnostic.SeverityError)) }

func (s logSink) Success(msg string) { s.log.Info(msg, severity(diagnostic.SeveritySuccess)) }

func severity(sev diagnostic.Severity) logger.Field {
	return logger.String("severity", sev.String())
}
