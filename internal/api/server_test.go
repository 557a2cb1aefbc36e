package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/internal/pipeline"
	"github.com/avinse/reportage/internal/state"
	"github.com/avinse/reportage/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, *state.Ledger, string) {
	t.Helper()
	out := t.TempDir()

	ledger, err := state.Open(out)
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	cfg := config.Config{
		OutputDir:      out,
		Workers:        2,
		MaxUploadBytes: 10 << 20,
		MaxRetryBytes:  100 << 20,
		JobTTL:         time.Hour,
	}
	runner, err := pipeline.NewRunner(cfg, ledger, discardLogger())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	return NewServer(runner, ledger, discardLogger(), cfg), ledger, out
}

func seedDocument(t *testing.T, ledger *state.Ledger, id, company string, year int, status string) {
	t.Helper()
	rec := state.Record{
		ID:          id,
		Source:      filepath.Join("in", company, "annual.pdf"),
		Company:     company,
		Year:        year,
		Kind:        "text",
		Status:      status,
		Pages:       12,
		ProcessedAt: time.Now().UTC(),
		Sections: []state.SectionRecord{
			{Type: "letter_to_stakeholders", StartPage: 2, EndPage: 6, Confidence: 0.95, Heading: "Letter to Shareholders", Method: "layout_and_keywords"},
		},
	}
	if err := ledger.RecordRun(context.Background(), rec); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
}

func doRequest(s *Server, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("body = %s, want ok", rec.Body.String())
	}
}

func TestListDocumentsFilters(t *testing.T) {
	s, ledger, _ := newTestServer(t)
	seedDocument(t, ledger, "doc-a", "acme", 2023, model.StatusProcessed)
	seedDocument(t, ledger, "doc-b", "zeta", 2022, model.StatusFailed)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/api/documents", 2},
		{"by status", "/api/documents?status=processed", 1},
		{"by company", "/api/documents?company=zeta", 1},
		{"by year", "/api/documents?year=2023", 1},
		{"no match", "/api/documents?company=acme&year=2022", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodGet, tt.target, nil, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
			}
			var resp struct {
				Count int `json:"count"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Count != tt.want {
				t.Errorf("count = %d, want %d", resp.Count, tt.want)
			}
		})
	}

	t.Run("invalid year", func(t *testing.T) {
		rec := doRequest(s, http.MethodGet, "/api/documents?year=twenty", nil, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGetDocument(t *testing.T) {
	s, ledger, _ := newTestServer(t)
	seedDocument(t, ledger, "doc-a", "acme", 2023, model.StatusProcessed)

	rec := doRequest(s, http.MethodGet, "/api/documents/doc-a", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var view struct {
		ID       string `json:"id"`
		Company  string `json:"company"`
		Sections []struct {
			Type      string `json:"type"`
			StartPage int    `json:"start_page"`
			EndPage   int    `json:"end_page"`
		} `json:"sections"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if view.ID != "doc-a" || view.Company != "acme" {
		t.Errorf("document = %s/%s, want doc-a/acme", view.ID, view.Company)
	}
	if len(view.Sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(view.Sections))
	}
	if view.Sections[0].Type != "letter_to_stakeholders" || view.Sections[0].StartPage != 2 || view.Sections[0].EndPage != 6 {
		t.Errorf("section = %+v, want letter 2-6", view.Sections[0])
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/documents/nope", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Error("error envelope missing")
	}
}

func multipartUpload(t *testing.T, filename string, content []byte, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("writing file part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestIngestRejectsNonPDF(t *testing.T) {
	s, _, _ := newTestServer(t)

	body, contentType := multipartUpload(t, "notes.txt", []byte("hello"), nil)
	rec := doRequest(s, http.MethodPost, "/api/ingest", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestIngestRejectsMislabeledContent(t *testing.T) {
	s, _, _ := newTestServer(t)

	// A ZIP archive renamed to .pdf passes the extension check but not
	// the content sniff.
	body, contentType := multipartUpload(t, "annual.pdf", []byte("PK\x03\x04archive bytes"), nil)
	rec := doRequest(s, http.MethodPost, "/api/ingest", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("zip archive")) {
		t.Errorf("body = %s, want detected format named", rec.Body.String())
	}
}

func TestIngestQueuesAndRunsJob(t *testing.T) {
	s, ledger, out := newTestServer(t)

	// A PDF header gets the upload past the content sniff; the job
	// itself still fails once the parser reads the rest.
	body, contentType := multipartUpload(t, "annual.pdf", []byte("%PDF-1.4\nnot a real pdf"),
		map[string]string{"company": "acme", "year": "2023"})
	rec := doRequest(s, http.MethodPost, "/api/ingest", body, contentType)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	var accepted struct {
		JobID   string `json:"job_id"`
		Status  string `json:"status"`
		PollURL string `json:"poll_url"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&accepted); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if accepted.JobID == "" {
		t.Fatal("job_id missing")
	}
	if accepted.PollURL != "/api/jobs/"+accepted.JobID {
		t.Errorf("poll_url = %q", accepted.PollURL)
	}

	// The upload lands on disk before the job is queued.
	saved := filepath.Join(out, "uploads", accepted.JobID, "annual.pdf")
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("upload not saved: %v", err)
	}

	// The placeholder is not a valid PDF, so the job must fail once
	// the pool has run it.
	s.Drain()
	poll := doRequest(s, http.MethodGet, accepted.PollURL, nil, "")
	if poll.Code != http.StatusOK {
		t.Fatalf("poll status = %d, want 200", poll.Code)
	}
	var snap struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(poll.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snap.Status != string(JobFailed) {
		t.Errorf("job status = %q, want %q", snap.Status, JobFailed)
	}
	if snap.Error == "" {
		t.Error("failed job has no error")
	}

	// The failure is in the ledger with the form-supplied identity.
	recs, err := ledger.ByStatus(context.Background(), model.StatusFailed)
	if err != nil {
		t.Fatalf("ByStatus: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d failed rows, want 1", len(recs))
	}
	if recs[0].Company != "acme" || recs[0].Year != 2023 {
		t.Errorf("identity = %q/%d, want acme/2023", recs[0].Company, recs[0].Year)
	}
}

func TestGetJobNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/jobs/nope", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
