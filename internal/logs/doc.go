// Package logs reads readq log files for the `readq logs` command.
//
// Last returns the trailing lines of a file with bounded memory; Follow
// polls for lines appended after an offset until its context ends.
package logs
