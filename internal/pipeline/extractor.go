package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgallion1/timeliner/internal/document"
	"github.com/dgallion1/timeliner/internal/extract"
	"github.com/dgallion1/timeliner/internal/llm"
	"github.com/dgallion1/timeliner/internal/timeline"
)

// Extractor drives the per-chunk prompt/parse/transform loop and assembles
// the final deduplicated timeline.
type Extractor struct {
	gen           llm.Generator
	transformer   *extract.Transformer
	log           *slog.Logger
	maxConcurrent int

	// MaxChunks truncates processing to a fixed prefix of the document's
	// chunks when > 0. Used for fast-iteration runs.
	MaxChunks int

	// Guidance is auxiliary caller-supplied text appended to the
	// extraction directive of every prompt.
	Guidance string

	// OnChunkDone, when set, is called after each chunk finishes. Used by
	// the worker to advance job progress.
	OnChunkDone func()
}

// Report summarizes one extraction run.
type Report struct {
	Chunks            int `json:"chunks"`
	RejectedResponses int `json:"rejected_responses"`
	EventsExtracted   int `json:"events_extracted"`
	EventsKept        int `json:"events_kept"`
}

// Result is the outcome of an extraction run: the finalized timeline plus
// its run report.
type Result struct {
	Events []timeline.Event
	Report Report
}

func NewExtractor(gen llm.Generator, tr *extract.Transformer, log *slog.Logger, maxConcurrent int) *Extractor {
	if tr == nil {
		tr = extract.NewTransformer(nil)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Extractor{
		gen:           gen,
		transformer:   tr,
		log:           log,
		maxConcurrent: maxConcurrent,
	}
}

// Run processes chunks in document order. Chunk prompts run with bounded
// concurrency, but per-chunk results are restored to document order before
// assembly so deduplication and provenance stay deterministic. A malformed
// response rejects that chunk's whole contribution and is never retried;
// only transient transport errors are retried, with backoff.
func (e *Extractor) Run(ctx context.Context, chunks []document.Chunk) (*Result, error) {
	if e.MaxChunks > 0 && len(chunks) > e.MaxChunks {
		chunks = chunks[:e.MaxChunks]
	}

	perChunk := make([][]timeline.Event, len(chunks))
	rejected := make([]bool, len(chunks))

	sem := make(chan struct{}, e.maxConcurrent)
	done := make(chan int, len(chunks))

	for i, chunk := range chunks {
		sem <- struct{}{}
		go func(i int, chunk document.Chunk) {
			defer func() { <-sem }()
			events, ok := e.processChunk(ctx, chunk)
			perChunk[i] = events
			rejected[i] = !ok
			done <- i
		}(i, chunk)
	}

	for range chunks {
		<-done
		if e.OnChunkDone != nil {
			e.OnChunkDone()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var builder timeline.Builder
	report := Report{Chunks: len(chunks)}
	for i := range chunks {
		if rejected[i] {
			report.RejectedResponses++
		}
		report.EventsExtracted += len(perChunk[i])
		builder.Append(perChunk[i]...)
	}

	events := builder.Finalize()
	report.EventsKept = len(events)

	return &Result{Events: events, Report: report}, nil
}

// processChunk prompts the model for one chunk and returns its canonical
// events. ok is false when the chunk contributed nothing because the
// response was malformed or the call failed outright.
func (e *Extractor) processChunk(ctx context.Context, chunk document.Chunk) ([]timeline.Event, bool) {
	prompt := extract.BuildPrompt(chunk.Text, e.Guidance)

	var raw string
	var err error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		raw, err = e.gen.Generate(ctx, prompt)
		if err == nil || !IsRetryable(err) {
			break
		}
		e.log.Warn("retryable model error", "chunk", chunk.Index, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, false
		}
	}
	if err != nil {
		e.log.Error("model call failed", "chunk", chunk.Index, "page", chunk.Page, "error", err)
		return nil, false
	}

	rawEvents, err := extract.ParseResponse(raw)
	if err != nil {
		if errors.Is(err, extract.ErrMalformedResponse) {
			e.log.Warn("rejected model response", "chunk", chunk.Index, "page", chunk.Page, "error", err)
		} else {
			e.log.Error("parse response", "chunk", chunk.Index, "error", err)
		}
		return nil, false
	}

	events := make([]timeline.Event, 0, len(rawEvents))
	for _, re := range rawEvents {
		events = append(events, e.transformer.Canonical(re, chunk))
	}
	return events, true
}
