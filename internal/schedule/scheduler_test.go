package schedule_test

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"readq/internal/schedule"
)

type fixedSource struct {
	draws []int
	calls []int
}

func (f *fixedSource) IntN(n int) int {
	f.calls = append(f.calls, n)
	if len(f.draws) == 0 {
		return 0
	}
	v := f.draws[0]
	f.draws = f.draws[1:]
	return v
}

func entries(ids ...int64) []schedule.Entry {
	out := make([]schedule.Entry, len(ids))
	for i, id := range ids {
		out[i] = schedule.Entry{ID: id, Position: i}
	}
	return out
}

// apply mimics the store: assignments land on the snapshot, the inserted
// note (if any) takes its slot, and the result is re-sorted by position.
func apply(t *testing.T, before []schedule.Entry, updates []schedule.Assignment) []schedule.Entry {
	t.Helper()
	byID := make(map[int64]int, len(before))
	order := make([]int64, 0, len(before))
	for _, e := range before {
		byID[e.ID] = e.Position
		order = append(order, e.ID)
	}
	for _, u := range updates {
		if _, ok := byID[u.ID]; !ok {
			order = append(order, u.ID)
		}
		byID[u.ID] = u.Position
	}
	out := make([]schedule.Entry, 0, len(order))
	for _, id := range order {
		out = append(out, schedule.Entry{ID: id, Position: byID[id]})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Position < out[j-1].Position; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func TestComputeInsertFirstThirdScenario(t *testing.T) {
	s := schedule.New(nil)
	plan, ok := s.ComputeInsert(entries(1, 2, 3), schedule.FirstThird)
	if !ok {
		t.Fatal("expected insertion plan")
	}
	if plan.TargetIndex != 1 {
		t.Fatalf("target index = %d, want 1", plan.TargetIndex)
	}
	want := []schedule.Assignment{{ID: 2, Position: 2}, {ID: 3, Position: 3}}
	if !reflect.DeepEqual(plan.Shifts, want) {
		t.Fatalf("shifts = %+v, want %+v", plan.Shifts, want)
	}
}

func TestComputeInsertNotAdd(t *testing.T) {
	s := schedule.New(nil)
	if _, ok := s.ComputeInsert(entries(1, 2), schedule.NotAdd); ok {
		t.Fatal("NotAdd must not produce a plan")
	}
}

func TestDeterministicPolicies(t *testing.T) {
	s := schedule.New(nil)
	for n := 0; n <= 20; n++ {
		cases := map[schedule.Policy]int{
			schedule.Head:        0,
			schedule.FirstThird:  n / 3,
			schedule.SecondThird: 2 * n / 3,
			schedule.End:         n,
		}
		for p, want := range cases {
			got, ok := s.TargetIndex(n, p)
			if !ok || got != want {
				t.Fatalf("n=%d %s: got %d (ok=%v), want %d", n, p, got, ok, want)
			}
		}
	}
}

func TestTargetIndexWithinBounds(t *testing.T) {
	s := schedule.New(rand.New(rand.NewPCG(7, 11)))
	for _, p := range schedule.Policies() {
		for n := 0; n <= 40; n++ {
			for range 25 {
				idx, ok := s.TargetIndex(n, p)
				if p == schedule.NotAdd {
					if ok {
						t.Fatalf("NotAdd produced index %d", idx)
					}
					continue
				}
				if idx < 0 || idx > n {
					t.Fatalf("%s n=%d: index %d out of [0,%d]", p, n, idx, n)
				}
				lo, hi, _ := schedule.Bounds(n, p)
				if idx < lo || idx > hi {
					t.Fatalf("%s n=%d: index %d out of policy range [%d,%d]", p, n, idx, lo, hi)
				}
			}
		}
	}
}

func TestRandomBoundsAreInclusive(t *testing.T) {
	cases := []struct {
		policy schedule.Policy
		n      int
		lo, hi int
	}{
		{schedule.Random, 9, 0, 9},
		{schedule.RandomFirstThird, 9, 0, 3},
		{schedule.RandomSecondThird, 9, 3, 6},
		{schedule.RandomThirdThird, 9, 6, 9},
		{schedule.RandomThirdThird, 10, 6, 10},
		{schedule.Random, 0, 0, 0},
	}
	for _, tc := range cases {
		lo, hi, ok := schedule.Bounds(tc.n, tc.policy)
		if !ok || lo != tc.lo || hi != tc.hi {
			t.Fatalf("%s n=%d: bounds [%d,%d], want [%d,%d]", tc.policy, tc.n, lo, hi, tc.lo, tc.hi)
		}

		src := &fixedSource{draws: []int{tc.hi - tc.lo}}
		idx, _ := schedule.New(src).TargetIndex(tc.n, tc.policy)
		if idx != tc.hi {
			t.Fatalf("%s n=%d: max draw gave %d, want %d", tc.policy, tc.n, idx, tc.hi)
		}
		if tc.lo == tc.hi {
			if len(src.calls) != 0 {
				t.Fatalf("%s n=%d: degenerate range should not draw", tc.policy, tc.n)
			}
			continue
		}
		if got := src.calls[0]; got != tc.hi-tc.lo+1 {
			t.Fatalf("%s n=%d: IntN(%d), want IntN(%d)", tc.policy, tc.n, got, tc.hi-tc.lo+1)
		}
	}
}

func TestInsertThenRemoveRestoresPositions(t *testing.T) {
	s := schedule.New(rand.New(rand.NewPCG(3, 5)))
	for _, p := range schedule.Policies() {
		if p == schedule.NotAdd {
			continue
		}
		for n := 0; n <= 12; n++ {
			before := entries(idsFrom(100, n)...)
			plan, ok := s.ComputeInsert(before, p)
			if !ok {
				t.Fatalf("%s: expected plan", p)
			}
			updates := append(plan.Shifts, schedule.Assignment{ID: 1, Position: plan.TargetIndex})
			after := apply(t, before, updates)
			if err := schedule.CheckDense(after); err != nil {
				t.Fatalf("%s n=%d: after insert: %v", p, n, err)
			}

			without := make([]schedule.Entry, 0, len(after))
			for _, e := range after {
				if e.ID != 1 {
					without = append(without, e)
				}
			}
			restored := apply(t, without, schedule.ComputeRemovalShift(after, plan.TargetIndex))
			if !reflect.DeepEqual(restored, before) {
				t.Fatalf("%s n=%d: restored %+v, want %+v", p, n, restored, before)
			}
		}
	}
}

func TestDensityHoldsAcrossOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	s := schedule.New(rng)
	var queue []schedule.Entry
	nextID := int64(1)
	policies := schedule.Policies()

	for step := range 500 {
		switch op := rng.IntN(3); {
		case op == 0 || len(queue) == 0:
			p := policies[rng.IntN(len(policies))]
			plan, ok := s.ComputeInsert(queue, p)
			if !ok {
				continue
			}
			queue = apply(t, queue, append(plan.Shifts, schedule.Assignment{ID: nextID, Position: plan.TargetIndex}))
			nextID++
		case op == 1:
			victim := queue[rng.IntN(len(queue))]
			shifts := schedule.ComputeRemovalShift(queue, victim.Position)
			rest := make([]schedule.Entry, 0, len(queue)-1)
			for _, e := range queue {
				if e.ID != victim.ID {
					rest = append(rest, e)
				}
			}
			queue = apply(t, rest, shifts)
		default:
			item := queue[rng.IntN(len(queue))]
			others := make([]int64, 0, len(queue)-1)
			for _, e := range queue {
				if e.ID != item.ID {
					others = append(others, e.ID)
				}
			}
			res := s.Reschedule(others, item.ID, policies[rng.IntN(len(policies))])
			if !res.Queued {
				queue = queue[:0]
				for _, a := range res.Assignments {
					queue = append(queue, schedule.Entry{ID: a.ID, Position: a.Position})
				}
				break
			}
			queue = apply(t, nil, res.Assignments)
		}
		if err := schedule.CheckDense(queue); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
}

func TestRescheduleConsumedItem(t *testing.T) {
	s := schedule.New(nil)
	// Note 2 was at position 1 and has been consumed.
	others := []int64{1, 3, 4, 5}

	res := s.Reschedule(others, 2, schedule.End)
	if !res.Queued || res.Index != 4 || res.Total != 5 {
		t.Fatalf("unexpected result %+v", res)
	}
	want := schedule.ApplyFullRenumber([]int64{1, 3, 4, 5, 2})
	if !reflect.DeepEqual(res.Assignments, want) {
		t.Fatalf("assignments = %+v, want %+v", res.Assignments, want)
	}

	res = s.Reschedule(others, 2, schedule.SecondThird)
	if res.Index != 2 {
		t.Fatalf("second third index = %d, want 2", res.Index)
	}
}

func TestRescheduleNotAddRemovesItem(t *testing.T) {
	s := schedule.New(nil)
	res := s.Reschedule([]int64{7, 9}, 8, schedule.NotAdd)
	if res.Queued {
		t.Fatal("NotAdd must dequeue")
	}
	if res.Index != -1 || res.Total != 2 {
		t.Fatalf("unexpected placement %+v", res)
	}
	want := []schedule.Assignment{{ID: 7, Position: 0}, {ID: 9, Position: 1}}
	if !reflect.DeepEqual(res.Assignments, want) {
		t.Fatalf("assignments = %+v, want %+v", res.Assignments, want)
	}
}

func TestRescheduleIntoEmptyQueue(t *testing.T) {
	s := schedule.New(&fixedSource{})
	for _, p := range schedule.Policies() {
		res := s.Reschedule(nil, 1, p)
		if p == schedule.NotAdd {
			if res.Index != -1 || res.Total != 0 {
				t.Fatalf("NotAdd on empty queue: %+v", res)
			}
			continue
		}
		if res.Index != 0 || res.Total != 1 {
			t.Fatalf("%s on empty queue: %+v", p, res)
		}
	}
}

func TestComputeRemovalShift(t *testing.T) {
	shifts := schedule.ComputeRemovalShift(entries(1, 2, 3, 4), 1)
	want := []schedule.Assignment{{ID: 3, Position: 1}, {ID: 4, Position: 2}}
	if !reflect.DeepEqual(shifts, want) {
		t.Fatalf("shifts = %+v, want %+v", shifts, want)
	}
	if got := schedule.ComputeRemovalShift(entries(1, 2), 5); len(got) != 0 {
		t.Fatalf("expected no shifts past the tail, got %+v", got)
	}
}

func TestCheckDense(t *testing.T) {
	if err := schedule.CheckDense(nil); err != nil {
		t.Fatalf("empty snapshot: %v", err)
	}
	gap := []schedule.Entry{{ID: 1, Position: 0}, {ID: 2, Position: 2}}
	if err := schedule.CheckDense(gap); !errors.Is(err, schedule.ErrNotDense) {
		t.Fatalf("expected ErrNotDense, got %v", err)
	}
}

func TestContractViolationsPanic(t *testing.T) {
	cases := map[string]func(){
		"non-dense insert": func() {
			schedule.New(nil).ComputeInsert([]schedule.Entry{{ID: 1, Position: 3}}, schedule.Head)
		},
		"negative removal": func() { schedule.ComputeRemovalShift(nil, -1) },
		"negative length":  func() { schedule.Bounds(-1, schedule.End) },
		"unknown policy":   func() { schedule.Bounds(3, schedule.Policy(42)) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			fn()
		})
	}
}

func idsFrom(start int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = start + int64(i)
	}
	return out
}
