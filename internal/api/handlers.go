package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avinse/reportage/format"
	"github.com/avinse/reportage/internal/pipeline"
	"github.com/avinse/reportage/internal/state"
)

// documentView is the JSON shape of one ledger row.
type documentView struct {
	ID          string        `json:"id"`
	Source      string        `json:"source"`
	Company     string        `json:"company,omitempty"`
	Year        int           `json:"year,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	Status      string        `json:"status"`
	Pages       int           `json:"pages"`
	ProcessedAt time.Time     `json:"processed_at"`
	ElapsedMS   int64         `json:"elapsed_ms"`
	Error       string        `json:"error,omitempty"`
	Sections    []sectionView `json:"sections,omitempty"`
}

type sectionView struct {
	Type       string  `json:"type"`
	StartPage  int     `json:"start_page"`
	EndPage    int     `json:"end_page"`
	Confidence float64 `json:"confidence"`
	Heading    string  `json:"heading,omitempty"`
	Method     string  `json:"method,omitempty"`
}

func viewOf(rec state.Record) documentView {
	view := documentView{
		ID:          rec.ID,
		Source:      rec.Source,
		Company:     rec.Company,
		Year:        rec.Year,
		Kind:        rec.Kind,
		Status:      rec.Status,
		Pages:       rec.Pages,
		ProcessedAt: rec.ProcessedAt,
		ElapsedMS:   rec.ElapsedMS,
		Error:       rec.Error,
	}
	for _, sec := range rec.Sections {
		view.Sections = append(view.Sections, sectionView{
			Type:       sec.Type,
			StartPage:  sec.StartPage,
			EndPage:    sec.EndPage,
			Confidence: sec.Confidence,
			Heading:    sec.Heading,
			Method:     sec.Method,
		})
	}
	return view
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year := 0
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "invalid year: "+v, http.StatusBadRequest)
			return
		}
		year = n
	}

	recs, err := s.ledger.Filter(r.Context(), q.Get("status"), q.Get("company"), year)
	if err != nil {
		jsonError(w, "listing documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	views := make([]documentView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, viewOf(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": views,
		"count":     len(views),
	})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "docID")
	rec, err := s.ledger.Document(r.Context(), id)
	if errors.Is(err, state.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "reading document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec))
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
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
	if !format.IsPDFName(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read upload", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if f := format.Sniff(data); f != format.FormatPDF {
		jsonError(w, fmt.Sprintf("file content is not a PDF (detected %s)", f), http.StatusBadRequest)
		return
	}

	// Identity comes from optional form fields, falling back to
	// whatever the original filename carries.
	meta := pipeline.ParsePath(filename)
	if company := r.FormValue("company"); company != "" {
		meta.Company = company
	}
	if v := r.FormValue("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1900 || year > 2099 {
			jsonError(w, "invalid year: "+v, http.StatusBadRequest)
			return
		}
		meta.Year = year
	}

	s.jobs.Cleanup()
	job := s.jobs.Create(filename)

	dir := filepath.Join(s.cfg.OutputDir, "uploads", job.ID())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		job.Fail(err)
		jsonError(w, "saving upload: "+err.Error(), http.StatusInternalServerError)
		return
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		job.Fail(err)
		jsonError(w, "saving upload: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.submit(job, path, meta)

	snap := job.Snapshot()
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   snap.ID,
		"status":   snap.Status,
		"poll_url": "/api/jobs/" + snap.ID,
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job := s.jobs.Get(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
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
