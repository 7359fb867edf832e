package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var renderTime = time.Date(2026, time.August, 22, 14, 3, 5, 0, time.UTC)

func testRecord() Record {
	return Record{
		Logger:   "standard",
		Severity: ErrorLevel,
		Message:  "transfer failed",
		Function: "retryTransfer",
		Time:     renderTime,
	}
}

func TestRenderPresetCompact(t *testing.T) {
	f, err := newFormatter("compact", FormatterConfig{Format: PatternCompact})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-22 14:03:05 transfer failed", f.Render(testRecord()))
}

func TestRenderPresetPrecise(t *testing.T) {
	f, err := newFormatter("precise", FormatterConfig{Format: PatternPrecise})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-22 14:03:05 retryTransfer ERROR transfer failed", f.Render(testRecord()))
}

func TestRenderCustomDateFormat(t *testing.T) {
	f, err := newFormatter("timed", FormatterConfig{
		Format:     "%(asctime)s %(message)s",
		DateFormat: "%H:%M:%S",
	})
	require.NoError(t, err)

	assert.Equal(t, "14:03:05 transfer failed", f.Render(testRecord()))
}

func TestRenderLoggerNameToken(t *testing.T) {
	f, err := newFormatter("named", FormatterConfig{Format: "[%(name)s] %(levelname)s %(message)s"})
	require.NoError(t, err)

	assert.Equal(t, "[standard] ERROR transfer failed", f.Render(testRecord()))
}

func TestRenderLiteralPercent(t *testing.T) {
	f, err := newFormatter("pct", FormatterConfig{Format: "100%% %(message)s"})
	require.NoError(t, err)

	assert.Equal(t, "100% transfer failed", f.Render(testRecord()))
}

func TestRenderEmptyFunction(t *testing.T) {
	f, err := newFormatter("precise", FormatterConfig{Format: PatternPrecise})
	require.NoError(t, err)

	rec := testRecord()
	rec.Function = ""
	assert.Equal(t, "2026-08-22 14:03:05  ERROR transfer failed", f.Render(rec))
}

func TestRenderIsPure(t *testing.T) {
	f, err := newFormatter("compact", FormatterConfig{Format: PatternCompact})
	require.NoError(t, err)

	rec := testRecord()
	first := f.Render(rec)
	second := f.Render(rec)
	assert.Equal(t, first, second)
}

func TestCompilePatternErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{name: "unknown token", pattern: "%(asctime)s %(thread)s"},
		{name: "missing verb", pattern: "%(message)"},
		{name: "wrong verb", pattern: "%(message)d"},
		{name: "unterminated directive", pattern: "%(message"},
		{name: "stray percent", pattern: "% (message)s"},
		{name: "trailing percent", pattern: "%(message)s %"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compilePattern(tt.pattern)
			assert.Error(t, err)
		})
	}
}

func TestNewFormatterRejectsEmptyPattern(t *testing.T) {
	_, err := newFormatter("empty", FormatterConfig{})
	assert.Error(t, err)
}

func TestFormatterName(t *testing.T) {
	f, err := newFormatter("compact", FormatterConfig{Format: PatternCompact})
	require.NoError(t, err)
	assert.Equal(t, "compact", f.Name())
}
