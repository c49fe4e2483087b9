// Package scoring turns review history into performance scores.
//
// A history is a chronological slice of ReviewEvent values that the caller has
// already filtered to review-type entries. ScoreItem reduces one note's
// history to a Score made of three sub-scores (retention, time, rating) and a
// composite. Histories shorter than MinSample, or with no passing review to
// rate, have no score; that is a normal result, not an error.
//
// CollectionBaseline applies the retention and average-time formulas across a
// whole collection so a single note can be compared against it.
package scoring
