package dispatch

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandleEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	cfg := Config{
		Version:    SchemaVersion,
		Formatters: map[string]FormatterConfig{"bare": {Format: "%(funcName)s %(levelname)s %(message)s"}},
		Handlers: map[string]HandlerConfig{
			"console": {Class: ClassStream, Formatter: "bare", Level: "DEBUG", Stream: StreamStdout},
		},
		Loggers: map[string]LoggerConfig{
			"standard": {Level: "DEBUG", Handlers: []string{"console"}},
		},
	}
	eng, err := New(cfg, WithStdout(&buf))
	require.NoError(t, err)
	t.Cleanup(func() { eng.Close() })
	return eng, &buf
}

func TestLoggerSeverityMethods(t *testing.T) {
	eng, buf := newHandleEngine(t)
	l := eng.Logger("standard")

	l.Debug("d")
	l.Info("i")
	l.Warning("w")
	l.Error("e")
	l.Critical("c")

	out := buf.String()
	assert.Contains(t, out, "DEBUG d")
	assert.Contains(t, out, "INFO i")
	assert.Contains(t, out, "WARNING w")
	assert.Contains(t, out, "ERROR e")
	assert.Contains(t, out, "CRITICAL c")
}

func TestLoggerFormattedMethods(t *testing.T) {
	eng, buf := newHandleEngine(t)
	l := eng.Logger("standard")

	l.Debugf("d=%d", 1)
	l.Infof("i=%s", "x")
	l.Warningf("w=%v", true)
	l.Errorf("e=%d", 2)
	l.Criticalf("c=%03d", 7)

	out := buf.String()
	assert.Contains(t, out, "DEBUG d=1")
	assert.Contains(t, out, "INFO i=x")
	assert.Contains(t, out, "WARNING w=true")
	assert.Contains(t, out, "ERROR e=2")
	assert.Contains(t, out, "CRITICAL c=007")
}

func TestLoggerCapturesCallerFunction(t *testing.T) {
	eng, buf := newHandleEngine(t)
	l := eng.Logger("standard")

	l.Info("from the test")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "TestLoggerCapturesCallerFunction "), "got %q", lines[0])
}

func TestLoggerEmitExplicitFunction(t *testing.T) {
	eng, buf := newHandleEngine(t)
	l := eng.Logger("standard")

	l.Emit(WarningLevel, "manual", "pipeline")

	assert.Equal(t, "pipeline WARNING manual\n", buf.String())
}

func TestLoggerUnknownNameFallsBack(t *testing.T) {
	eng, buf := newHandleEngine(t)
	l := eng.Logger("api")

	assert.Equal(t, "api", l.Name())
	l.Emit(InfoLevel, "routed", "f")

	assert.Contains(t, buf.String(), "INFO routed")
}

func TestShortFuncName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "package function", input: "github.com/acme/app/worker.Drain", expected: "Drain"},
		{name: "method", input: "github.com/acme/app/worker.(*Pool).Drain", expected: "Drain"},
		{name: "closure", input: "main.run.func1", expected: "func1"},
		{name: "main", input: "main.main", expected: "main"},
		{name: "already short", input: "doWork", expected: "doWork"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shortFuncName(tt.input))
		})
	}
}
