package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dgallion1/timeliner/internal/parser"
	"github.com/dgallion1/timeliner/internal/pipeline"
	"github.com/dgallion1/timeliner/internal/render"
	"github.com/dgallion1/timeliner/internal/store"
)

func (s *Server) handleCreateTimeline(w http.ResponseWriter, r *http.Request) {
	// Limit total request size; extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	now := time.Now()
	job := &pipeline.Job{
		ID:        uuid.NewString(),
		Status:    pipeline.StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     r.FormValue("title"),
		Guidance:  r.FormValue("guidance"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	job.SetForce(r.FormValue("force") == "true")

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/jobs/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleListTimelines(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	summaries, err := s.store.ListTimelines(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list timelines: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"timelines": summaries})
}

func (s *Server) handleGetTimeline(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTimeline(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

func (s *Server) handleGetTimelineHTML(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTimeline(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := render.Options{
		Title:     t.Title,
		DocName:   t.DocName,
		StartYear: queryInt(q.Get("start_year")),
		EndYear:   queryInt(q.Get("end_year")),
		Width:     queryInt(q.Get("width")),
	}
	if opts.Width <= 0 {
		opts.Width = s.cfg.DefaultWidth
	}

	page, err := render.Page(t.Events, opts)
	if err != nil {
		jsonError(w, "failed to render timeline: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, page)
}

func (s *Server) handleDeleteTimeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "timelineID")
	deleted, err := s.store.DeleteTimeline(r.Context(), id)
	if err != nil {
		jsonError(w, "failed to delete timeline: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if !deleted {
		jsonError(w, "timeline not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadTimeline(w http.ResponseWriter, r *http.Request) (*store.Timeline, bool) {
	id := chi.URLParam(r, "timelineID")
	t, err := s.store.GetTimeline(r.Context(), id)
	if err != nil {
		jsonError(w, "failed to load timeline: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	if t == nil {
		jsonError(w, "timeline not found", http.StatusNotFound)
		return nil, false
	}
	return t, true
}

func queryInt(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
