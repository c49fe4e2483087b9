// Command readq manages the reading queue from the terminal.
//
// It opens the notes database directly; writes take the same lock file as
// readqd so both can run against one data directory. Read commands accept
// --json for machine-readable output.
package main
