package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Severity
	}{
		{name: "upper case", input: "DEBUG", expected: DebugLevel},
		{name: "lower case", input: "info", expected: InfoLevel},
		{name: "mixed case", input: "Warning", expected: WarningLevel},
		{name: "surrounding whitespace", input: "  ERROR  ", expected: ErrorLevel},
		{name: "critical", input: "critical", expected: CriticalLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSeverity(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestParseSeverityUnknown(t *testing.T) {
	for _, input := range []string{"", "verbose", "WARN", "FATAL", "NOTICE"} {
		_, err := ParseSeverity(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "CRITICAL", CriticalLevel.String())
	assert.Equal(t, "SEVERITY(17)", Severity(17).String())
	assert.Equal(t, "SEVERITY(-1)", Severity(-1).String())
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, DebugLevel < InfoLevel)
	assert.True(t, InfoLevel < WarningLevel)
	assert.True(t, WarningLevel < ErrorLevel)
	assert.True(t, ErrorLevel < CriticalLevel)
}

func TestClampSeverity(t *testing.T) {
	assert.Equal(t, DebugLevel, clampSeverity(Severity(-5)))
	assert.Equal(t, CriticalLevel, clampSeverity(Severity(99)))
	assert.Equal(t, WarningLevel, clampSeverity(WarningLevel))
}
