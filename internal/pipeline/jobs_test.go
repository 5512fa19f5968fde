package pipeline

import (
	"testing"
	"time"
)

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "j1", Status: StatusQueued, UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get("j1"); got != job {
		t.Errorf("expected stored job, got %v", got)
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
}

func TestJobStore_CleanupEvictsExpired(t *testing.T) {
	store := NewJobStore(time.Minute)
	stale := &Job{ID: "stale", UpdatedAt: time.Now().Add(-2 * time.Minute)}
	fresh := &Job{ID: "fresh", UpdatedAt: time.Now()}
	store.Put(stale)
	store.Put(fresh)

	store.Cleanup()

	if store.Get("stale") != nil {
		t.Error("expired job survived cleanup")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh job evicted")
	}
}

func TestJob_SnapshotReflectsProgress(t *testing.T) {
	job := &Job{ID: "j1", Filename: "doc.pdf", Title: "Doc"}
	job.SetStatus(StatusExtracting, "extracting events")
	job.SetTotalChunks(5)
	job.IncrChunksProcessed()
	job.IncrChunksProcessed()
	job.SetReport(Report{Chunks: 5, RejectedResponses: 1, EventsExtracted: 12, EventsKept: 10})
	job.AddError("chunk 3: malformed model response")
	job.SetTimelineID("tl-9")

	snap := job.Snapshot()
	if snap.Status != StatusExtracting || snap.Phase != "extracting events" {
		t.Errorf("status not reflected: %+v", snap)
	}
	if snap.Progress.TotalChunks != 5 || snap.Progress.ChunksProcessed != 2 {
		t.Errorf("chunk progress not reflected: %+v", snap.Progress)
	}
	if snap.Progress.RejectedResponses != 1 || snap.Progress.EventsKept != 10 {
		t.Errorf("report not reflected: %+v", snap.Progress)
	}
	if len(snap.Progress.Errors) != 1 {
		t.Errorf("errors not reflected: %+v", snap.Progress.Errors)
	}
	if snap.TimelineID != "tl-9" {
		t.Errorf("timeline id not reflected: %q", snap.TimelineID)
	}
}

func TestJob_SnapshotErrorsNeverNil(t *testing.T) {
	job := &Job{ID: "j1"}
	if errs := job.Snapshot().Progress.Errors; errs == nil {
		t.Error("snapshot errors should serialize as [], not null")
	}
}

func TestJob_ForceFlag(t *testing.T) {
	job := &Job{ID: "j1"}
	if job.Force() {
		t.Error("force should default to false")
	}
	job.SetForce(true)
	if !job.Force() {
		t.Error("force flag not set")
	}
}

func TestContentHashHex(t *testing.T) {
	a := ContentHashHex([]byte("same content"))
	b := ContentHashHex([]byte("same content"))
	c := ContentHashHex([]byte("different content"))
	if a != b {
		t.Error("hash not deterministic")
	}
	if a == c {
		t.Error("distinct content hashed identically")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
