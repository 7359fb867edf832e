package dispatch

import (
	"fmt"
	"strings"
)

// Severity is the importance of a log record. Severities are totally
// ordered; higher values are more severe. The zero value is DebugLevel.
type Severity int32

const (
	DebugLevel Severity = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	CriticalLevel
)

// numSeverities sizes per-severity counters.
const numSeverities = 5

var severityNames = [numSeverities]string{
	"DEBUG",
	"INFO",
	"WARNING",
	"ERROR",
	"CRITICAL",
}

// String returns the canonical upper-case severity name.
func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts a severity name to its value. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range severityNames {
		if n == upper {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

// clampSeverity forces out-of-range values into the valid span so a
// caller passing a cast integer cannot bypass the level gates.
func clampSeverity(s Severity) Severity {
	if s < DebugLevel {
		return DebugLevel
	}
	if s > CriticalLevel {
		return CriticalLevel
	}
	return s
}
