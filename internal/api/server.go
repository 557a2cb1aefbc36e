// Package api serves the run ledger and the ingest pipeline over
// HTTP: document listing and detail, multipart PDF ingest with polled
// job status, and a health probe.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/internal/pipeline"
	"github.com/avinse/reportage/internal/state"
)

// Server is the HTTP API server. It owns the worker pool that ingest
// uploads are processed on.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	ledger *state.Ledger
	jobs   *JobStore
	sem    chan struct{}
	wg     sync.WaitGroup
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(runner *pipeline.Runner, ledger *state.Ledger, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		runner: runner,
		ledger: ledger,
		jobs:   NewJobStore(cfg.JobTTL),
		sem:    make(chan struct{}, cfg.Workers),
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{docID}", s.handleGetDocument)
		r.Post("/ingest", s.handleIngest)
		r.Get("/jobs/{jobID}", s.handleGetJob)
	})

	s.router = r
}

// Drain blocks until every queued ingest job has finished.
func (s *Server) Drain() {
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// submit hands a saved upload to the worker pool.
func (s *Server) submit(job *Job, path string, meta pipeline.DocMeta) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sem <- struct{}{}
		defer func() { <-s.sem }()

		job.SetStatus(JobProcessing)
		res := s.runner.ProcessAs(context.Background(), path, meta, true)
		if res.Err != nil {
			job.Fail(res.Err)
			return
		}
		var found []string
		for _, sec := range res.Report.Sections {
			found = append(found, sec.Type.String())
		}
		job.Complete(found)
	}()
}
