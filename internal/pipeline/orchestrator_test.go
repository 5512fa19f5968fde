package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/timeliner/internal/config"
)

func newTestOrchestrator() *Orchestrator {
	cfg := config.Config{
		WorkerCount:          1,
		MaxQueueSize:         2,
		MaxConcurrentExtract: 1,
		ChunkSize:            60,
		JobTTL:               time.Hour,
	}
	return NewOrchestrator(cfg, einsteinGen(), newFakeStore(), testLogger())
}

func TestOrchestrator_ProcessesSubmittedJob(t *testing.T) {
	o := newTestOrchestrator()
	o.Start(context.Background())
	defer o.Stop()

	job := newTestJob(workerDoc, "einstein.txt")
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := o.GetJob(job.ID); got != job {
		t.Fatal("submitted job not registered")
	}

	deadline := time.After(5 * time.Second)
	for {
		if s := job.Snapshot().Status; s == StatusCompleted {
			return
		} else if s == StatusFailed {
			t.Fatalf("job failed: %v", job.Snapshot().Progress.Errors)
		}
		select {
		case <-deadline:
			t.Fatalf("job never completed, status %s", job.Snapshot().Status)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestOrchestrator_SubmitAfterStopIsRejected(t *testing.T) {
	o := newTestOrchestrator()
	o.Start(context.Background())
	o.Stop()

	job := newTestJob(workerDoc, "einstein.txt")
	if err := o.Submit(job); err == nil {
		t.Fatal("expected submit after stop to fail")
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("status: got %s, want %s", job.Snapshot().Status, StatusFailed)
	}
}

func TestOrchestrator_SubmitFullQueue(t *testing.T) {
	// No workers draining: the queue fills at capacity.
	o := newTestOrchestrator()

	var err error
	for i := 0; i < 3; i++ {
		job := newTestJob(workerDoc, "einstein.txt")
		err = o.Submit(job)
	}
	if err == nil {
		t.Fatal("expected queue-full error on third submit")
	}
}

func TestOrchestrator_StopTwice(t *testing.T) {
	o := newTestOrchestrator()
	o.Start(context.Background())
	o.Stop()
	o.Stop() // second stop must not panic on the closed queue
}
