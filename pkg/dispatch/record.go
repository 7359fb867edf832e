package dispatch

import "time"

// Record is a single log event flowing through the engine. Records are
// built per emission and discarded once every eligible handler has
// processed them.
type Record struct {
	// Logger is the name the record was emitted against. It keeps the
	// caller's name even when dispatch falls back to the default logger.
	Logger string
	// Severity is the record's importance after clamping.
	Severity Severity
	// Message is the message text, already fully interpolated.
	Message string
	// Function is the short name of the emitting function. May be empty.
	Function string
	// Time is when the engine accepted the record.
	Time time.Time
}
