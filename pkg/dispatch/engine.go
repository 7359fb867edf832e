package dispatch

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
)

// DefaultLoggerName is the logger dispatch falls back to when a record
// names a logger the configuration does not define.
const DefaultLoggerName = "standard"

// Drop reasons used by the metrics counters.
const (
	DropReasonLoggerLevel   = "logger_level"
	DropReasonHandlerLevel  = "handler_level"
	DropReasonUnknownLogger = "unknown_logger"
)

// Engine routes records from named loggers to their handlers' sinks.
// A loaded engine is immutable: reconfiguration means building a new
// engine and closing the old one. All methods are safe for concurrent
// use.
type Engine struct {
	formatters map[string]*Formatter
	handlers   map[string]*Handler
	loggers    map[string]*logger

	defaultLogger string
	now           func() time.Time
	stdout        io.Writer
	stderr        io.Writer
	diag          io.Writer
	metrics       *Metrics

	emitted        [numSeverities]atomic.Uint64
	droppedLogger  atomic.Uint64
	droppedHandler atomic.Uint64
	unknownLogger  atomic.Uint64

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithDefaultLogger changes the fallback logger for unknown names.
func WithDefaultLogger(name string) Option {
	return func(e *Engine) { e.defaultLogger = name }
}

// WithClock substitutes the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStdout redirects handlers configured for the stdout stream.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithStderr redirects handlers configured for the stderr stream.
func WithStderr(w io.Writer) Option {
	return func(e *Engine) { e.stderr = w }
}

// WithDiagnostics sends one line per swallowed sink write failure to
// w. Dispatch still never returns those failures to the producer.
func WithDiagnostics(w io.Writer) Option {
	return func(e *Engine) { e.diag = w }
}

// WithMetrics attaches prometheus counters to the engine.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New builds a ready engine from a configuration document. Every
// violation in the document is reported in one aggregated error; on
// failure no file handle stays open and no partial engine is returned.
func New(cfg Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		formatters:    make(map[string]*Formatter),
		handlers:      make(map[string]*Handler),
		loggers:       make(map[string]*logger),
		defaultLogger: DefaultLoggerName,
		now:           time.Now,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := buildEngine(cfg, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Emit routes one record. It returns after every eligible handler has
// attempted its write. Sink failures are counted and optionally
// reported through diagnostics, never returned: emitting must stay
// unconditionally safe for producers.
func (e *Engine) Emit(loggerName string, s Severity, message, function string) {
	if e.closed.Load() {
		return
	}
	s = clampSeverity(s)
	lg, ok := e.loggers[loggerName]
	if !ok {
		lg, ok = e.loggers[e.defaultLogger]
		if !ok {
			e.unknownLogger.Add(1)
			if m := e.metrics; m != nil {
				m.dropped.WithLabelValues(DropReasonUnknownLogger).Inc()
			}
			return
		}
	}
	if s < lg.min {
		e.droppedLogger.Add(1)
		if m := e.metrics; m != nil {
			m.dropped.WithLabelValues(DropReasonLoggerLevel).Inc()
		}
		return
	}
	rec := Record{
		Logger:   loggerName,
		Severity: s,
		Message:  message,
		Function: function,
		Time:     e.now(),
	}
	for _, h := range lg.handlers {
		if s < h.min {
			e.droppedHandler.Add(1)
			if m := e.metrics; m != nil {
				m.dropped.WithLabelValues(DropReasonHandlerLevel).Inc()
			}
			continue
		}
		if err := h.out.writeLine(h.formatter.Render(rec)); err != nil {
			h.writeFailures.Add(1)
			if m := e.metrics; m != nil {
				m.writeFailures.WithLabelValues(h.name).Inc()
			}
			if e.diag != nil {
				fmt.Fprintf(e.diag, "logfan: handler %q write failed: %v\n", h.name, err)
			}
		}
	}
	e.emitted[s].Add(1)
	if m := e.metrics; m != nil {
		m.emitted.WithLabelValues(s.String()).Inc()
	}
}

// Close flips the engine into a permanent no-op state and closes every
// file sink. Stream sinks stay open since the process owns them.
// Close is idempotent; later calls return the first result.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		var errs *multierror.Error
		for _, name := range e.Handlers() {
			if err := e.handlers[name].out.close(); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("closing handler %q: %w", name, err))
			}
		}
		e.closeErr = errs.ErrorOrNil()
	})
	return e.closeErr
}

// Formatters returns the loaded formatter names in sorted order.
func (e *Engine) Formatters() []string {
	names := make([]string, 0, len(e.formatters))
	for name := range e.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handlers returns the loaded handler names in sorted order.
func (e *Engine) Handlers() []string {
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Loggers returns the loaded logger names in sorted order.
func (e *Engine) Loggers() []string {
	names := make([]string, 0, len(e.loggers))
	for name := range e.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handler returns a loaded handler by name.
func (e *Engine) Handler(name string) (*Handler, bool) {
	h, ok := e.handlers[name]
	return h, ok
}

// Stats is a point-in-time snapshot of the dispatch counters. Maps
// hold only nonzero entries.
type Stats struct {
	// Emitted counts records accepted past their logger's gate, by
	// severity, whether or not any handler ended up writing them.
	Emitted map[Severity]uint64
	// DroppedByLoggerLevel counts records rejected by a logger gate.
	DroppedByLoggerLevel uint64
	// DroppedByHandlerLevel counts per-handler skips of accepted
	// records.
	DroppedByHandlerLevel uint64
	// UnknownLogger counts records dropped because neither the named
	// logger nor the default logger exists.
	UnknownLogger uint64
	// WriteFailures counts swallowed sink write errors per handler.
	WriteFailures map[string]uint64
}

// Stats returns the current dispatch counters.
func (e *Engine) Stats() Stats {
	st := Stats{
		Emitted:               make(map[Severity]uint64, numSeverities),
		WriteFailures:         make(map[string]uint64, len(e.handlers)),
		DroppedByLoggerLevel:  e.droppedLogger.Load(),
		DroppedByHandlerLevel: e.droppedHandler.Load(),
		UnknownLogger:         e.unknownLogger.Load(),
	}
	for i := range e.emitted {
		if n := e.emitted[i].Load(); n > 0 {
			st.Emitted[Severity(i)] = n
		}
	}
	for name, h := range e.handlers {
		if n := h.writeFailures.Load(); n > 0 {
			st.WriteFailures[name] = n
		}
	}
	return st
}
