package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/timeliner/internal/chunker"
	"github.com/dgallion1/timeliner/internal/extract"
	"github.com/dgallion1/timeliner/internal/llm"
	"github.com/dgallion1/timeliner/internal/parser"
	"github.com/dgallion1/timeliner/internal/store"
)

// TimelineStore is the persistence surface the worker needs.
type TimelineStore interface {
	FindByContentHash(ctx context.Context, hash string) (*store.Timeline, error)
	SaveTimeline(ctx context.Context, t *store.Timeline) error
}

// Worker processes a single extraction job end to end.
type Worker struct {
	gen         llm.Generator
	transformer *extract.Transformer
	store       TimelineStore
	log         *slog.Logger
	chunkCfg    chunker.Config

	maxConcurrentExtract int
	maxChunks            int
}

func NewWorker(gen llm.Generator, ts TimelineStore, log *slog.Logger, chunkCfg chunker.Config, maxConcurrent, maxChunks int) *Worker {
	return &Worker{
		gen:                  gen,
		transformer:          extract.NewTransformer(nil),
		store:                ts,
		log:                  log,
		chunkCfg:             chunkCfg,
		maxConcurrentExtract: maxConcurrent,
		maxChunks:            maxChunks,
	}
}

// Process runs parse → chunk → extract → save for one job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	job.ContentHash = ContentHashHex([]byte(doc.Flatten()))

	// Phase 1.5: Content-hash cache. An identical document has already
	// been through the model; reuse its timeline unless forced.
	if !job.Force() {
		cached, err := w.store.FindByContentHash(ctx, job.ContentHash)
		if err != nil {
			log.Warn("cache lookup failed, proceeding", "error", err)
		} else if cached != nil {
			log.Info("identical document already extracted", "timeline_id", cached.ID)
			job.SetTimelineID(cached.ID)
			job.SetStatus(StatusCached, "cache")
			return
		}
	}

	// Phase 2: Chunk.
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.Chunk(doc, w.chunkCfg)
	if w.maxChunks > 0 && len(chunks) > w.maxChunks {
		chunks = chunks[:w.maxChunks]
	}
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no extractable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Extract.
	job.SetStatus(StatusExtracting, "extracting")
	ex := NewExtractor(w.gen, w.transformer, log, w.maxConcurrentExtract)
	ex.Guidance = job.Guidance
	ex.OnChunkDone = job.IncrChunksProcessed

	result, err := ex.Run(ctx, chunks)
	if err != nil {
		log.Error("extraction aborted", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetReport(result.Report)
	log.Info("extraction complete",
		"events_kept", result.Report.EventsKept,
		"rejected_responses", result.Report.RejectedResponses,
	)

	// Phase 4: Save.
	job.SetStatus(StatusSaving, "saving")
	rec := &store.Timeline{
		ID:          uuid.NewString(),
		Title:       doc.Title,
		DocName:     doc.Name,
		ContentHash: job.ContentHash,
		CreatedAt:   time.Now(),
		Events:      result.Events,
	}
	if err := w.store.SaveTimeline(ctx, rec); err != nil {
		log.Error("save failed", "error", err)
		job.AddError(fmt.Sprintf("save: %s", err))
		job.SetStatus(StatusFailed, "saving")
		return
	}

	job.SetTimelineID(rec.ID)
	job.SetStatus(StatusCompleted, "done")
}
