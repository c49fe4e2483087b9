package scoring

import "sort"

// Metric selects what Rank orders by.
type Metric int

const (
	ByComposite Metric = iota
	ByRetention
)

// Ranked is one note's position in a performance ranking.
type Ranked struct {
	ID        int64   `json:"id"`
	Score     Score   `json:"score"`
	Retention float64 `json:"retention"`
}

// Rank orders notes from weakest to strongest. Notes need MinSample reviews
// to be ranked. A note ScoreItem cannot rate, because every review failed,
// ranks with a zero Score. Ties break on ascending ID. A limit <= 0 returns
// every ranked note.
func Rank(histories map[int64][]ReviewEvent, metric Metric, limit int) []Ranked {
	out := make([]Ranked, 0, len(histories))
	for id, events := range histories {
		s := Summarize(events)
		if s.Reviews < MinSample {
			continue
		}
		score, _ := ScoreItem(events)
		out = append(out, Ranked{ID: id, Score: score, Retention: s.Retention()})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch metric {
		case ByRetention:
			if a.Retention != b.Retention {
				return a.Retention < b.Retention
			}
		default:
			if a.Score.Composite != b.Score.Composite {
				return a.Score.Composite < b.Score.Composite
			}
		}
		return a.ID < b.ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
