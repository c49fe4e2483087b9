package scoring_test

import (
	"testing"

	"readq/internal/scoring"
)

func TestRankByComposite(t *testing.T) {
	histories := map[int64][]scoring.ReviewEvent{
		1: history(2000, repeat(scoring.Good, 5)...),
		2: history(2000, scoring.Good, scoring.Fail, scoring.Fail, scoring.Hard),
		3: history(2000, scoring.Good, scoring.Good),  // too few reviews
		4: history(2000, repeat(scoring.Fail, 5)...), // nothing to rate, ranks at zero
		5: history(9000, scoring.Good, scoring.Good, scoring.Good, scoring.Fail),
	}

	ranked := scoring.Rank(histories, scoring.ByComposite, 0)
	var ids []int64
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	want := []int64{4, 2, 5, 1}
	if len(ids) != len(want) {
		t.Fatalf("ranked ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ranked ids = %v, want %v", ids, want)
		}
	}

	if ranked[0].Score != (scoring.Score{}) {
		t.Fatalf("all-fail note score = %+v, want zero", ranked[0].Score)
	}

	limited := scoring.Rank(histories, scoring.ByComposite, 1)
	if len(limited) != 1 || limited[0].ID != 4 {
		t.Fatalf("limited ranking = %+v", limited)
	}
}

func TestRankByRetentionIncludesAllFail(t *testing.T) {
	histories := map[int64][]scoring.ReviewEvent{
		10: history(1000, repeat(scoring.Good, 4)...),
		11: history(1000, repeat(scoring.Fail, 4)...),
		12: history(1000, scoring.Good, scoring.Good, scoring.Good, scoring.Fail),
	}
	ranked := scoring.Rank(histories, scoring.ByRetention, 0)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked notes, got %d", len(ranked))
	}
	if ranked[0].ID != 11 || ranked[0].Retention != 0 {
		t.Fatalf("weakest = %+v, want note 11 at 0%%", ranked[0])
	}
	if ranked[1].ID != 12 || ranked[2].ID != 10 {
		t.Fatalf("unexpected order %+v", ranked)
	}
}

func TestRankTiesBreakOnID(t *testing.T) {
	same := repeat(scoring.Good, 4)
	histories := map[int64][]scoring.ReviewEvent{
		30: history(1000, same...),
		20: history(1000, same...),
		25: history(1000, same...),
	}
	ranked := scoring.Rank(histories, scoring.ByComposite, 0)
	if ranked[0].ID != 20 || ranked[1].ID != 25 || ranked[2].ID != 30 {
		t.Fatalf("ties not broken by id: %+v", ranked)
	}
}
