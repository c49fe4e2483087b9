package scoring

import (
	"fmt"
	"math"
)

// MinSample is the number of qualifying reviews required before a note is
// scored. Shorter histories are too noisy to rank.
const MinSample = 4

// Score is a note's performance. Every field is truncated toward zero.
type Score struct {
	Composite      int `json:"composite"`
	TimeScore      int `json:"time_score"`
	RetentionScore int `json:"retention_score"`
	RatingScore    int `json:"rating_score"`
}

// Summary tallies a review history.
type Summary struct {
	Reviews   int     `json:"reviews"`
	Passed    int     `json:"passed"`
	Failed    int     `json:"failed"`
	Hard      int     `json:"hard"`
	Good      int     `json:"good"`
	Easy      int     `json:"easy"`
	TimeTaken float64 `json:"time_taken_seconds"`
}

// Summarize counts outcomes and accumulates review time in seconds. Events
// with an invalid outcome are not counted.
func Summarize(events []ReviewEvent) Summary {
	var s Summary
	for _, ev := range events {
		if !ev.Outcome.IsValid() {
			continue
		}
		s.Reviews++
		switch ev.Outcome {
		case Fail:
			s.Failed++
		case Hard:
			s.Passed++
			s.Hard++
		case Good:
			s.Passed++
			s.Good++
		case Easy:
			s.Passed++
			s.Easy++
		}
		s.TimeTaken += float64(ev.DurationMS) / 1000.0
	}
	return s
}

// GoodOrEasy returns the number of Good and Easy reviews.
func (s Summary) GoodOrEasy() int {
	return s.Good + s.Easy
}

// Retention is the pass percentage rounded to one decimal, or 0 without reviews.
func (s Summary) Retention() float64 {
	if s.Passed+s.Failed == 0 {
		return 0
	}
	return round(100*float64(s.Passed)/float64(s.Passed+s.Failed), 1)
}

// AvgTime is the mean seconds per review rounded to one decimal, or 0 without reviews.
func (s Summary) AvgTime() float64 {
	if s.Reviews == 0 {
		return 0
	}
	return round(s.TimeTaken/float64(s.Reviews), 1)
}

// ScoreItem scores one note's history. It reports false when the history has
// fewer than MinSample reviews or no Hard, Good, or Easy review to rate.
func ScoreItem(events []ReviewEvent) (Score, bool) {
	s := Summarize(events)
	if s.Reviews < MinSample {
		return Score{}, false
	}
	return performance(s.Retention(), s.AvgTime(), s.GoodOrEasy(), s.Hard)
}

func performance(retention, avgTime float64, goodOrEasy, hard int) (Score, bool) {
	if goodOrEasy == 0 && hard == 0 {
		return Score{}, false
	}
	// Doubled so retention weighs twice the other sub-scores.
	retentionSub := retention * (1 - (100-retention)/100) * 2
	timeSub := math.Max(0, 100-(avgTime/3)*10)
	ratingSub := 100 * float64(goodOrEasy) / float64(goodOrEasy+hard)
	composite := round((retentionSub+timeSub+ratingSub)*100/400, 1)
	return Score{
		Composite:      int(composite),
		TimeScore:      int(timeSub),
		RetentionScore: int(retentionSub / 2),
		RatingScore:    int(ratingSub),
	}, true
}

// Baseline is the collection-wide retention and average review time.
type Baseline struct {
	RetentionPct float64 `json:"retention_pct"`
	AvgTimeSec   float64 `json:"avg_time_sec"`
}

// CollectionBaseline applies the retention and average-time formulas to
// every event in the collection. No minimum sample applies; an empty
// collection yields the zero Baseline.
func CollectionBaseline(events []ReviewEvent) Baseline {
	s := Summarize(events)
	if s.Reviews == 0 {
		return Baseline{}
	}
	return Baseline{RetentionPct: s.Retention(), AvgTimeSec: s.AvgTime()}
}

// FormatDelta renders value-base to two decimals with an explicit sign.
func FormatDelta(value, base float64) string {
	diff := round(value-base, 2)
	if diff >= 0 {
		return fmt.Sprintf("+%.2f", math.Abs(diff))
	}
	return fmt.Sprintf("%.2f", diff)
}

// Report combines one note's tallies and score with the collection baseline.
type Report struct {
	Summary        Summary  `json:"summary"`
	Score          *Score   `json:"score,omitempty"`
	Baseline       Baseline `json:"baseline"`
	RetentionDelta string   `json:"retention_delta,omitempty"`
	TimeDelta      string   `json:"time_delta,omitempty"`
}

// NewReport scores item against collection. Deltas are left empty when the
// note has no reviews.
func NewReport(item, collection []ReviewEvent) Report {
	r := Report{
		Summary:  Summarize(item),
		Baseline: CollectionBaseline(collection),
	}
	if score, ok := ScoreItem(item); ok {
		r.Score = &score
	}
	if r.Summary.Reviews > 0 {
		r.RetentionDelta = FormatDelta(r.Summary.Retention(), r.Baseline.RetentionPct)
		r.TimeDelta = FormatDelta(r.Summary.AvgTime(), r.Baseline.AvgTimeSec)
	}
	return r
}

func round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(value*scale) / scale
}
