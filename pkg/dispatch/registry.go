package dispatch

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// Handler is a loaded handler: a severity gate in front of a bound
// formatter and a sink.
type Handler struct {
	name      string
	min       Severity
	formatter *Formatter
	out       sink

	class      string
	stream     string
	filename   string
	mode       string
	createDirs bool

	writeFailures atomic.Uint64
}

// Name returns the registry name the handler was loaded under.
func (h *Handler) Name() string { return h.name }

// Level returns the handler's minimum severity.
func (h *Handler) Level() Severity { return h.min }

// Class returns ClassStream or ClassFile.
func (h *Handler) Class() string { return h.class }

// Filename returns the destination path of a file handler. Empty for
// stream handlers.
func (h *Handler) Filename() string { return h.filename }

// WriteFailures returns how many sink write errors this handler has
// swallowed so far.
func (h *Handler) WriteFailures() uint64 { return h.writeFailures.Load() }

// logger is a loaded logger: its own severity gate plus the bound
// handlers in declared order.
type logger struct {
	name     string
	min      Severity
	handlers []*Handler
}

// Validate reports every structural violation in cfg in one
// aggregated error, without opening any sink. It applies the same
// checks New does short of the open phase, so a nil error does not
// guarantee that file destinations are openable.
func Validate(cfg Config) error {
	e := &Engine{
		formatters: make(map[string]*Formatter),
		handlers:   make(map[string]*Handler),
		loggers:    make(map[string]*logger),
	}
	return validateInto(cfg, e)
}

// buildEngine validates cfg, fills the engine registries and opens the
// sinks. Files are only opened once the whole document is structurally
// valid, and anything already opened is closed again when a later open
// fails.
func buildEngine(cfg Config, e *Engine) error {
	if err := validateInto(cfg, e); err != nil {
		return err
	}
	return openSinks(e)
}

// validateInto checks cfg and fills the engine registries in
// dependency order: formatters, then handlers, then loggers. Every
// violation in the document is collected before giving up.
func validateInto(cfg Config, e *Engine) error {
	var errs *multierror.Error

	if cfg.Version != SchemaVersion {
		errs = multierror.Append(errs, newConfigError(CodeBadVersion, "", "",
			fmt.Sprintf("unsupported document version %d (want %d)", cfg.Version, SchemaVersion)))
	}

	// Violations are reported in sorted name order so the aggregated
	// error reads the same on every load.
	formatterNames := make([]string, 0, len(cfg.Formatters))
	for name := range cfg.Formatters {
		formatterNames = append(formatterNames, name)
	}
	sort.Strings(formatterNames)
	for _, name := range formatterNames {
		fc := cfg.Formatters[name]
		if name == "" {
			errs = multierror.Append(errs, newConfigError(CodeEmptyName, "formatters", "", "empty formatter name"))
			continue
		}
		f, err := newFormatter(name, fc)
		if err != nil {
			errs = multierror.Append(errs, newConfigErrorWithCause(CodeBadPattern, "formatters", name, "invalid format pattern", err))
			continue
		}
		e.formatters[name] = f
	}

	handlerNames := make([]string, 0, len(cfg.Handlers))
	for name := range cfg.Handlers {
		handlerNames = append(handlerNames, name)
	}
	sort.Strings(handlerNames)
	for _, name := range handlerNames {
		hc := cfg.Handlers[name]
		if name == "" {
			errs = multierror.Append(errs, newConfigError(CodeEmptyName, "handlers", "", "empty handler name"))
			continue
		}
		h := &Handler{
			name:       name,
			class:      hc.Class,
			stream:     hc.Stream,
			filename:   hc.Filename,
			mode:       hc.Mode,
			createDirs: hc.CreateDirs,
		}
		ok := true
		min, err := ParseSeverity(hc.Level)
		if err != nil {
			errs = multierror.Append(errs, newConfigError(CodeBadLevel, "handlers", name,
				fmt.Sprintf("invalid level %q", hc.Level)))
			ok = false
		}
		h.min = min
		if _, exists := cfg.Formatters[hc.Formatter]; !exists {
			errs = multierror.Append(errs, &ConfigError{
				Code:    CodeUnknownFormatter,
				Section: "handlers",
				Name:    name,
				Ref:     hc.Formatter,
				Message: fmt.Sprintf("references unknown formatter %q", hc.Formatter),
			})
			ok = false
		} else {
			h.formatter = e.formatters[hc.Formatter]
		}
		switch hc.Class {
		case ClassStream:
			if hc.Stream != StreamStdout && hc.Stream != StreamStderr {
				errs = multierror.Append(errs, newConfigError(CodeBadStream, "handlers", name,
					fmt.Sprintf("invalid stream %q (want %q or %q)", hc.Stream, StreamStdout, StreamStderr)))
				ok = false
			}
			if hc.Filename != "" {
				errs = multierror.Append(errs, newConfigError(CodeUnexpectedField, "handlers", name,
					"filename is only valid for file handlers"))
				ok = false
			}
			if hc.Mode != "" {
				errs = multierror.Append(errs, newConfigError(CodeUnexpectedField, "handlers", name,
					"mode is only valid for file handlers"))
				ok = false
			}
		case ClassFile:
			if hc.Filename == "" {
				errs = multierror.Append(errs, newConfigError(CodeMissingFilename, "handlers", name,
					"file handler needs a filename"))
				ok = false
			}
			if hc.Mode != "" && hc.Mode != ModeAppend && hc.Mode != ModeTruncate {
				errs = multierror.Append(errs, newConfigError(CodeBadMode, "handlers", name,
					fmt.Sprintf("invalid mode %q (want %q or %q)", hc.Mode, ModeAppend, ModeTruncate)))
				ok = false
			}
			if hc.Stream != "" {
				errs = multierror.Append(errs, newConfigError(CodeUnexpectedField, "handlers", name,
					"stream is only valid for stream handlers"))
				ok = false
			}
		default:
			errs = multierror.Append(errs, newConfigError(CodeBadClass, "handlers", name,
				fmt.Sprintf("unknown class %q (want %q or %q)", hc.Class, ClassStream, ClassFile)))
			ok = false
		}
		if ok {
			e.handlers[name] = h
		}
	}

	loggerNames := make([]string, 0, len(cfg.Loggers))
	for name := range cfg.Loggers {
		loggerNames = append(loggerNames, name)
	}
	sort.Strings(loggerNames)
	for _, name := range loggerNames {
		lc := cfg.Loggers[name]
		if name == "" {
			errs = multierror.Append(errs, newConfigError(CodeEmptyName, "loggers", "", "empty logger name"))
			continue
		}
		ok := true
		min, err := ParseSeverity(lc.Level)
		if err != nil {
			errs = multierror.Append(errs, newConfigError(CodeBadLevel, "loggers", name,
				fmt.Sprintf("invalid level %q", lc.Level)))
			ok = false
		}
		lg := &logger{name: name, min: min}
		for _, ref := range lc.Handlers {
			if _, exists := cfg.Handlers[ref]; !exists {
				errs = multierror.Append(errs, &ConfigError{
					Code:    CodeUnknownHandler,
					Section: "loggers",
					Name:    name,
					Ref:     ref,
					Message: fmt.Sprintf("references unknown handler %q", ref),
				})
				ok = false
				continue
			}
			// The handler may itself have failed validation; the load
			// fails in that case, so a shorter bound list never escapes.
			if h := e.handlers[ref]; h != nil {
				lg.handlers = append(lg.handlers, h)
			}
		}
		if ok {
			e.loggers[name] = lg
		}
	}

	return errs.ErrorOrNil()
}

// openSinks binds every handler to its sink. Sinks open only after
// validation so that no descriptor is ever created for a rejected
// document.
func openSinks(e *Engine) error {
	var errs *multierror.Error

	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		h := e.handlers[name]
		switch h.class {
		case ClassStream:
			if h.stream == StreamStderr {
				h.out = newStreamSink(e.stderr)
			} else {
				h.out = newStreamSink(e.stdout)
			}
		case ClassFile:
			fs, err := openFileSink(h.filename, h.mode, h.createDirs)
			if err != nil {
				errs = multierror.Append(errs, newConfigErrorWithCause(CodeOpenFailed, "handlers", name,
					fmt.Sprintf("opening %q", h.filename), err))
				continue
			}
			h.out = fs
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		for _, h := range e.handlers {
			if h.out != nil {
				h.out.close()
			}
		}
		return err
	}
	return nil
}
