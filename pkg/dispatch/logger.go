package dispatch

import (
	"fmt"
	"runtime"
	"strings"
)

// Logger is a lightweight emit handle bound to one logger name on one
// engine. The name does not have to exist in the configuration; the
// default-logger fallback applies per record. Handles are safe for
// concurrent use and free to create.
type Logger struct {
	eng  *Engine
	name string
}

// Logger returns an emit handle for name.
func (e *Engine) Logger(name string) *Logger {
	return &Logger{eng: e, name: name}
}

// Name returns the logger name the handle emits against.
func (l *Logger) Name() string { return l.name }

// Emit routes a record with an explicit severity and function name.
func (l *Logger) Emit(s Severity, message, function string) {
	l.eng.Emit(l.name, s, message, function)
}

func (l *Logger) Debug(message string) {
	l.eng.Emit(l.name, DebugLevel, message, callerFunc(2))
}

func (l *Logger) Info(message string) {
	l.eng.Emit(l.name, InfoLevel, message, callerFunc(2))
}

func (l *Logger) Warning(message string) {
	l.eng.Emit(l.name, WarningLevel, message, callerFunc(2))
}

func (l *Logger) Error(message string) {
	l.eng.Emit(l.name, ErrorLevel, message, callerFunc(2))
}

func (l *Logger) Critical(message string) {
	l.eng.Emit(l.name, CriticalLevel, message, callerFunc(2))
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.eng.Emit(l.name, DebugLevel, fmt.Sprintf(format, args...), callerFunc(2))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.eng.Emit(l.name, InfoLevel, fmt.Sprintf(format, args...), callerFunc(2))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.eng.Emit(l.name, WarningLevel, fmt.Sprintf(format, args...), callerFunc(2))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.eng.Emit(l.name, ErrorLevel, fmt.Sprintf(format, args...), callerFunc(2))
}

func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.eng.Emit(l.name, CriticalLevel, fmt.Sprintf(format, args...), callerFunc(2))
}

// callerFunc resolves the short name of the function skip frames up
// the stack, or "" when the stack cannot be resolved.
func callerFunc(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return shortFuncName(fn.Name())
}

// shortFuncName trims a fully qualified function name like
// "github.com/acme/app/worker.(*Pool).Drain" down to "Drain".
func shortFuncName(full string) string {
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}
	if i := strings.LastIndexByte(full, '.'); i >= 0 {
		full = full[i+1:]
	}
	return full
}
