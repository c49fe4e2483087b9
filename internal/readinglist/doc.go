// Package readinglist implements the note and queue workflows shared by the
// readq CLI and the readqd HTTP server.
//
// Every mutation that touches queue positions runs inside a single notes
// store transaction: the snapshot is read, the schedule package computes the
// new positions, and all of them are written before commit. Scoring reads
// the review log filtered to the configured review kinds and hands it to the
// scoring package.
package readinglist
