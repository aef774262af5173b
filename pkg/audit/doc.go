// Package audit records machine-readable trails of parse, verify, and
// compliance operations.
//
// Events are written as a CBOR stream with integer keys, one event per
// operation, grouped by a run ID. The FileLogger appends to a binary
// log file; the Reader streams it back, optionally filtered. For
// development, SlogAdapter mirrors events to an slog.Logger, and
// MultiLogger fans out to several sinks at once:
//
//	logger = audit.NewMultiLogger(
//	    audit.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// Auditing never disrupts the operation it observes: encode errors are
// dropped, and a nil or NoopLogger disables it entirely.
package audit
