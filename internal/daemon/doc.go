// Package daemon runs the long-lived readqd process.
//
// It owns the single-instance flock, serves the HTTP API from httpapi, and
// shuts the listener down within the configured timeout. Queue semantics
// stay in readinglist; the daemon only handles startup, shutdown, and
// status reporting.
package daemon
