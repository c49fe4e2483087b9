// Package logging assembles the structured slog loggers used by readq.
//
// It owns the console and JSON handlers, level parsing, and output fan-out to
// stdout plus the log file, and it exposes context helpers so a correlation
// ID and the note being worked on ride along with every log line emitted
// during a command or HTTP request. NewNop is available for tests and wiring
// code that cannot fail.
package logging
