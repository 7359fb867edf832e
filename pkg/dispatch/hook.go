package dispatch

import "github.com/sirupsen/logrus"

// Hook forwards logrus entries into an engine, so existing logrus call
// sites can feed declarative dispatch without being rewired. Dispatch
// happens synchronously inside Fire.
type Hook struct {
	eng    *Engine
	logger string
}

// NewHook builds a logrus hook emitting against loggerName. An empty
// name targets the engine's default logger.
func NewHook(e *Engine, loggerName string) *Hook {
	if loggerName == "" {
		loggerName = e.defaultLogger
	}
	return &Hook{eng: e, logger: loggerName}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook. It never returns an error: dispatch
// swallows sink failures, and a logging bridge must not fail the
// producer either.
func (h *Hook) Fire(entry *logrus.Entry) error {
	function := ""
	if entry.Caller != nil {
		function = shortFuncName(entry.Caller.Function)
	}
	h.eng.Emit(h.logger, severityFromLogrus(entry.Level), entry.Message, function)
	return nil
}

// severityFromLogrus maps the seven logrus levels onto the five
// dispatch severities: Panic and Fatal collapse into CriticalLevel,
// Trace into DebugLevel.
func severityFromLogrus(level logrus.Level) Severity {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return CriticalLevel
	case logrus.ErrorLevel:
		return ErrorLevel
	case logrus.WarnLevel:
		return WarningLevel
	case logrus.InfoLevel:
		return InfoLevel
	default:
		return DebugLevel
	}
}
