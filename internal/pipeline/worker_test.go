package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/dgallion1/timeliner/internal/chunker"
	"github.com/dgallion1/timeliner/internal/store"
)

// fakeStore records saved timelines and serves canned cache hits.
type fakeStore struct {
	byHash map[string]*store.Timeline
	saved  []*store.Timeline
}

func newFakeStore() *fakeStore {
	return &fakeStore{byHash: make(map[string]*store.Timeline)}
}

func (f *fakeStore) FindByContentHash(ctx context.Context, hash string) (*store.Timeline, error) {
	return f.byHash[hash], nil
}

func (f *fakeStore) SaveTimeline(ctx context.Context, t *store.Timeline) error {
	f.saved = append(f.saved, t)
	f.byHash[t.ContentHash] = t
	return nil
}

const workerDoc = `Albert Einstein was born in Ulm in 1879. He spent his early
childhood in Munich where the family business was based. His interest in
science began with a compass his father showed him as a boy.

Einstein died in Princeton in 1955 after a long career that reshaped
physics. He had declined the presidency of Israel three years earlier.`

func einsteinGen() genFunc {
	return func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "born in Ulm") {
			return `[{"year":"1879","month":"","day_of_month":"","event":"Birth of Albert Einstein"}]`, nil
		}
		return `[{"year":"1955","month":"4","day_of_month":"18","event":"Death of Albert Einstein"}]`, nil
	}
}

func newTestWorker(fs *fakeStore) *Worker {
	cfg := chunker.Config{ChunkSize: 60, ChunkOverlap: 0, MinChunk: 5}
	return NewWorker(einsteinGen(), fs, testLogger(), cfg, 1, 0)
}

func newTestJob(data, filename string) *Job {
	job := &Job{ID: "job-1", Filename: filename, Status: StatusQueued}
	job.SetFileData([]byte(data))
	return job
}

func TestWorker_HappyPath(t *testing.T) {
	fs := newFakeStore()
	w := newTestWorker(fs)
	job := newTestJob(workerDoc, "einstein.txt")

	w.Process(context.Background(), job)

	if job.Status != StatusCompleted {
		t.Fatalf("status: got %s, want %s (errors: %v)", job.Status, StatusCompleted, job.Progress.Errors)
	}
	if len(fs.saved) != 1 {
		t.Fatalf("expected 1 saved timeline, got %d", len(fs.saved))
	}
	saved := fs.saved[0]
	if saved.ID == "" || saved.ID != job.TimelineID {
		t.Errorf("timeline id not propagated: %q vs %q", saved.ID, job.TimelineID)
	}
	if saved.ContentHash != job.ContentHash {
		t.Errorf("content hash mismatch")
	}
	if len(saved.Events) == 0 {
		t.Error("no events saved")
	}
	snap := job.Snapshot()
	if snap.Progress.TotalChunks == 0 || snap.Progress.ChunksProcessed != snap.Progress.TotalChunks {
		t.Errorf("progress not advanced: %+v", snap.Progress)
	}
}

func TestWorker_CacheHitSkipsExtraction(t *testing.T) {
	fs := newFakeStore()
	w := newTestWorker(fs)

	first := newTestJob(workerDoc, "einstein.txt")
	w.Process(context.Background(), first)
	if first.Status != StatusCompleted {
		t.Fatalf("first run failed: %s", first.Status)
	}

	second := newTestJob(workerDoc, "einstein-copy.txt")
	second.ID = "job-2"
	w.Process(context.Background(), second)

	if second.Status != StatusCached {
		t.Fatalf("status: got %s, want %s", second.Status, StatusCached)
	}
	if second.TimelineID != first.TimelineID {
		t.Errorf("cached job should reuse timeline %q, got %q", first.TimelineID, second.TimelineID)
	}
	if len(fs.saved) != 1 {
		t.Errorf("cache hit must not save a new timeline, got %d saves", len(fs.saved))
	}
}

func TestWorker_ForceBypassesCache(t *testing.T) {
	fs := newFakeStore()
	w := newTestWorker(fs)

	first := newTestJob(workerDoc, "einstein.txt")
	w.Process(context.Background(), first)

	second := newTestJob(workerDoc, "einstein.txt")
	second.ID = "job-2"
	second.SetForce(true)
	w.Process(context.Background(), second)

	if second.Status != StatusCompleted {
		t.Fatalf("status: got %s, want %s", second.Status, StatusCompleted)
	}
	if len(fs.saved) != 2 {
		t.Errorf("forced run should save again, got %d saves", len(fs.saved))
	}
	if second.TimelineID == first.TimelineID {
		t.Error("forced run should produce a fresh timeline id")
	}
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	fs := newFakeStore()
	w := newTestWorker(fs)
	job := newTestJob("data", "archive.zip")

	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Fatalf("status: got %s, want %s", job.Status, StatusFailed)
	}
	if len(job.Snapshot().Progress.Errors) == 0 {
		t.Error("expected an error recorded on the job")
	}
}

func TestWorker_EmptyDocumentFails(t *testing.T) {
	fs := newFakeStore()
	w := newTestWorker(fs)
	job := newTestJob("", "empty.txt")

	w.Process(context.Background(), job)

	if job.Status != StatusFailed {
		t.Fatalf("status: got %s, want %s", job.Status, StatusFailed)
	}
}
