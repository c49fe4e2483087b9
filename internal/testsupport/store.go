package testsupport

import (
	"context"
	"testing"

	"readq/internal/config"
	"readq/internal/notes"
	"readq/internal/schedule"
)

// MustOpenStore opens a notes.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *notes.Store {
	t.Helper()

	store, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("notes.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewNote inserts an unqueued note with the given title.
func NewNote(t testing.TB, store *notes.Store, title string, tags ...string) *notes.Note {
	t.Helper()

	var note *notes.Note
	err := store.Update(context.Background(), func(tx *notes.Tx) error {
		id, err := tx.InsertNote(&notes.Note{Title: title, Tags: tags})
		if err != nil {
			return err
		}
		note, err = tx.GetNote(id)
		return err
	})
	if err != nil {
		t.Fatalf("insert note %q: %v", title, err)
	}
	return note
}

// SeedQueue inserts count notes and queues them at positions 0..count-1 in
// insertion order. It returns the note IDs in queue order.
func SeedQueue(t testing.TB, store *notes.Store, count int) []int64 {
	t.Helper()

	ids := make([]int64, 0, count)
	err := store.Update(context.Background(), func(tx *notes.Tx) error {
		ids = ids[:0]
		for i := 0; i < count; i++ {
			id, err := tx.InsertNote(&notes.Note{Title: "seed"})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return tx.ApplyPositions(schedule.ApplyFullRenumber(ids))
	})
	if err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	return ids
}
