package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/timeliner/internal/timeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTimeline(id, hash string) *Timeline {
	return &Timeline{
		ID:          id,
		Title:       "Einstein",
		DocName:     "einstein.pdf",
		ContentHash: hash,
		CreatedAt:   time.Now(),
		Events: []timeline.Event{
			{Year: 1879, Text: "Birth of Albert Einstein", Source: "chunk a", Page: 1},
			{Year: 1905, Month: 6, Day: 30, Text: "Special relativity published", Source: "chunk b", Page: 4},
			{Year: 1955, Text: "Death of Albert Einstein", Source: "chunk c", Page: 9},
		},
	}
}

func TestSaveAndGetTimeline(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := sampleTimeline("tl-1", "hash-1")
	if err := s.SaveTimeline(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.GetTimeline(ctx, "tl-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected timeline, got nil")
	}
	if got.Title != want.Title || got.DocName != want.DocName || got.ContentHash != want.ContentHash {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if len(got.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got.Events))
	}
	// Events come back in insertion order.
	if got.Events[0].Year != 1879 || got.Events[2].Year != 1955 {
		t.Errorf("event order lost: %+v", got.Events)
	}
	if got.Events[1].Month != 6 || got.Events[1].Day != 30 || got.Events[1].Page != 4 {
		t.Errorf("event fields lost: %+v", got.Events[1])
	}
}

func TestGetTimeline_Absent(t *testing.T) {
	s := openTestStore(t)
	got, err := s.GetTimeline(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for absent timeline, got %+v", got)
	}
}

func TestFindByContentHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTimeline(ctx, sampleTimeline("tl-1", "shared-hash")); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.FindByContentHash(ctx, "shared-hash")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got == nil || got.ID != "tl-1" {
		t.Fatalf("expected tl-1, got %+v", got)
	}

	miss, err := s.FindByContentHash(ctx, "other-hash")
	if err != nil {
		t.Fatalf("find miss: %v", err)
	}
	if miss != nil {
		t.Errorf("expected nil for unknown hash, got %+v", miss)
	}
}

func TestListTimelines(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a := sampleTimeline("tl-a", "h-a")
	a.CreatedAt = time.Now().Add(-time.Hour)
	b := sampleTimeline("tl-b", "h-b")
	for _, tl := range []*Timeline{a, b} {
		if err := s.SaveTimeline(ctx, tl); err != nil {
			t.Fatalf("save %s: %v", tl.ID, err)
		}
	}

	list, err := s.ListTimelines(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(list))
	}
	if list[0].ID != "tl-b" {
		t.Errorf("expected most recent first, got %s", list[0].ID)
	}
	if list[0].EventCount != 3 {
		t.Errorf("expected event count 3, got %d", list[0].EventCount)
	}
}

func TestDeleteTimeline(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveTimeline(ctx, sampleTimeline("tl-1", "h")); err != nil {
		t.Fatalf("save: %v", err)
	}

	ok, err := s.DeleteTimeline(ctx, "tl-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Error("expected delete to report success")
	}

	got, err := s.GetTimeline(ctx, "tl-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("timeline survived delete: %+v", got)
	}

	ok, err = s.DeleteTimeline(ctx, "tl-1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if ok {
		t.Error("expected second delete to report not found")
	}
}
