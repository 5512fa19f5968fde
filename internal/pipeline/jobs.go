package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// JobStatus represents the state of an extraction job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusChunking   JobStatus = "chunking"
	StatusExtracting JobStatus = "extracting"
	StatusSaving     JobStatus = "saving"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCached     JobStatus = "cached" // identical document already extracted
)

// Job tracks the state of a single document extraction. It is never
// marshaled directly; API responses go through Snapshot.
type Job struct {
	mu sync.Mutex

	ID         string
	TimelineID string

	Status   JobStatus
	Phase    string
	Filename string
	Title    string
	Guidance string

	Progress Progress

	ContentHash string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	fileData []byte
	force    bool
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks       int      `json:"total_chunks"`
	ChunksProcessed   int      `json:"chunks_processed"`
	RejectedResponses int      `json:"rejected_responses"`
	EventsExtracted   int      `json:"events_extracted"`
	EventsKept        int      `json:"events_kept"`
	Errors            []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetTimelineID records the finished timeline's ID.
func (j *Job) SetTimelineID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.TimelineID = id
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrChunksProcessed atomically increments chunks processed.
func (j *Job) IncrChunksProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed++
	j.UpdatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *Job) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = n
	j.UpdatedAt = time.Now()
}

// SetReport records the extraction run's counters.
func (j *Job) SetReport(r Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.RejectedResponses = r.RejectedResponses
	j.Progress.EventsExtracted = r.EventsExtracted
	j.Progress.EventsKept = r.EventsKept
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// SetForce marks the job to bypass the content-hash cache.
func (j *Job) SetForce(force bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.force = force
}

// Force reports whether the content-hash cache is bypassed.
func (j *Job) Force() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.force
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID         string    `json:"job_id"`
	TimelineID string    `json:"timeline_id,omitempty"`
	Status     JobStatus `json:"status"`
	Phase      string    `json:"phase"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Progress   Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:         j.ID,
		TimelineID: j.TimelineID,
		Status:     j.Status,
		Phase:      j.Phase,
		Filename:   j.Filename,
		Title:      j.Title,
		Progress: Progress{
			TotalChunks:       j.Progress.TotalChunks,
			ChunksProcessed:   j.Progress.ChunksProcessed,
			RejectedResponses: j.Progress.RejectedResponses,
			EventsExtracted:   j.Progress.EventsExtracted,
			EventsKept:        j.Progress.EventsKept,
			Errors:            errs,
		},
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
