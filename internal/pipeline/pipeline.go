// Package pipeline runs annual-report PDFs end to end: identity
// parsed from the source path, extraction and boundary detection
// through the processing facade, exports written to disk, and a run
// ledger row per document. Batch runs fan documents out over a
// bounded worker pool; every document is independent.
package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/avinse/reportage"
	"github.com/avinse/reportage/export"
	"github.com/avinse/reportage/format"
	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/internal/state"
	"github.com/avinse/reportage/model"
	"github.com/avinse/reportage/sections"
)

// Runner processes documents against one output tree and one ledger.
// It is safe for concurrent use; the detector it carries is stateless.
type Runner struct {
	cfg      config.Config
	ledger   *state.Ledger
	log      *slog.Logger
	detector *sections.Detector
}

// NewRunner builds a runner. When cfg.KeywordsFile is set the
// detection phrases are loaded from it; scoring weights never change.
func NewRunner(cfg config.Config, ledger *state.Ledger, log *slog.Logger) (*Runner, error) {
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{cfg: cfg, ledger: ledger, log: log}
	if cfg.KeywordsFile != "" {
		kw, err := sections.LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		r.detector = sections.NewDetectorWithKeywords(kw)
	}
	return r, nil
}

// Result is the outcome of one document run. Report is always set:
// full for processed documents, identity-only for skips and failures.
type Result struct {
	Source  string
	Report  *model.Report
	Skipped bool
	Err     error
}

// ProcessFile runs one document through the pipeline, parsing its
// identity from the path. Unless force is set, a document whose
// outputs exist and whose input has not changed since its ledger row
// was written is skipped. Transient failures retry with backoff; the
// final state lands in the ledger either way.
func (r *Runner) ProcessFile(ctx context.Context, path string, force bool) Result {
	return r.ProcessAs(ctx, path, ParsePath(path), force)
}

// ProcessAs is ProcessFile with the document identity supplied by the
// caller, for sources whose path layout carries no identity, such as
// uploads.
func (r *Runner) ProcessAs(ctx context.Context, path string, meta DocMeta, force bool) Result {
	log := r.log.With("doc", filepath.Base(path))

	info, err := os.Stat(path)
	if err != nil {
		err = fmt.Errorf("reading source: %w", err)
		log.Error("processing failed", "error", err)
		r.recordFailure(ctx, path, meta, err)
		return Result{Source: path, Report: stubReport(path, meta, model.StatusFailed), Err: err}
	}

	outDir := r.exportDir(path, meta)
	if !force && r.alreadyExported(ctx, path, outDir, info.ModTime()) {
		log.Info("skipping unchanged document", "output", outDir)
		return Result{Source: path, Report: stubReport(path, meta, model.StatusSkipped), Skipped: true}
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		rep, err := r.processOnce(ctx, path, meta, outDir, info.ModTime())
		if err == nil {
			log.Info("processed",
				"pages", rep.Stats.TotalPages,
				"kind", rep.Kind.String(),
				"sections", len(rep.Sections),
				"elapsed", rep.Elapsed().Round(time.Millisecond))
			return Result{Source: path, Report: rep}
		}
		lastErr = err
		if !IsRetryable(err) || attempt == MaxRetries-1 {
			break
		}
		log.Warn("transient failure, backing off", "attempt", attempt+1, "error", err)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			break
		}
	}

	log.Error("processing failed", "error", lastErr)
	r.recordFailure(ctx, path, meta, lastErr)
	return Result{Source: path, Report: stubReport(path, meta, model.StatusFailed), Err: lastErr}
}

// processOnce is one attempt: extract, export, record. Export and
// ledger failures come back marked retryable; extraction failures are
// permanent, a malformed document will not improve.
func (r *Runner) processOnce(ctx context.Context, path string, meta DocMeta, outDir string, modTime time.Time) (*model.Report, error) {
	// Sniff errors fall through to the reader, which reports them.
	if f, err := format.SniffFile(path); err == nil && f != format.FormatPDF {
		return nil, fmt.Errorf("input is not a PDF (detected %s)", f)
	}

	proc := reportage.Open(path).WithContext(ctx)
	if r.detector != nil {
		proc = proc.WithDetector(r.detector)
	}
	if r.cfg.OCRLang != "" {
		proc = proc.OCRLanguage(r.cfg.OCRLang)
	} else if r.cfg.OCREnabled {
		proc = proc.OCR()
	}

	rep, err := proc.Report()
	if err != nil {
		return nil, fmt.Errorf("processing: %w", err)
	}
	rep.Company = meta.Company
	rep.Year = meta.Year

	for _, w := range rep.Warnings {
		r.log.Warn("extraction warning", "doc", filepath.Base(path), "warning", w.String())
	}

	if _, err := export.New(outDir).All(rep); err != nil {
		return nil, Retryable(fmt.Errorf("exporting: %w", err))
	}

	rec := state.NewRecord(uuid.NewString(), rep, modTime)
	if err := r.ledger.RecordRun(ctx, rec); err != nil {
		return nil, Retryable(fmt.Errorf("recording run: %w", err))
	}
	return rep, nil
}

// ProcessBatch walks root for PDF files and processes them with a
// bounded worker pool. Per-document failures are logged and counted,
// never fatal to the batch; the summary workbook is written at the
// end.
func (r *Runner) ProcessBatch(ctx context.Context, root string, force bool) ([]Result, error) {
	paths, err := findPDFs(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no PDF files under %s", root)
	}
	r.log.Info("starting batch", "documents", len(paths), "workers", r.cfg.Workers)

	results := make([]Result, len(paths))
	sem := make(chan struct{}, r.cfg.Workers)
	var wg sync.WaitGroup
	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.ProcessFile(ctx, path, force)
		}()
	}
	wg.Wait()

	reports := make([]*model.Report, len(results))
	var failed, skipped int
	for i, res := range results {
		reports[i] = res.Report
		if res.Err != nil {
			failed++
		}
		if res.Skipped {
			skipped++
		}
	}

	summaryPath := filepath.Join(r.cfg.OutputDir, export.BatchSummaryFile)
	if err := export.WriteBatchSummary(summaryPath, reports); err != nil {
		r.log.Warn("batch summary not written", "error", err)
	}

	r.log.Info("batch finished",
		"processed", len(results)-failed-skipped,
		"skipped", skipped,
		"failed", failed)
	return results, nil
}

// Retry reprocesses documents the ledger recorded as failed or as
// missing the given section. Sources that moved are matched against
// PDFs under inputRoot by company and year. Files over maxBytes are
// skipped; the rest run smallest first so quick wins land early.
func (r *Runner) Retry(ctx context.Context, inputRoot string, section model.SectionType, maxBytes int64) ([]Result, error) {
	failed, err := r.ledger.ByStatus(ctx, model.StatusFailed)
	if err != nil {
		return nil, err
	}
	missing, err := r.ledger.MissingSection(ctx, section.String())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var candidates []state.Record
	for _, rec := range append(failed, missing...) {
		if seen[rec.Source] {
			continue
		}
		seen[rec.Source] = true
		candidates = append(candidates, rec)
	}
	if len(candidates) == 0 {
		r.log.Info("nothing to retry")
		return nil, nil
	}

	var available []string
	if inputRoot != "" {
		if available, err = findPDFs(inputRoot); err != nil {
			return nil, err
		}
	}

	type target struct {
		path string
		size int64
	}
	var targets []target
	for _, rec := range candidates {
		path := resolveSource(rec, available)
		if path == "" {
			r.log.Warn("source not found, skipping", "source", rec.Source)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			r.log.Warn("source not readable, skipping", "source", path, "error", err)
			continue
		}
		if info.Size() > maxBytes {
			r.log.Warn("source over size cap, skipping",
				"source", path, "size", info.Size(), "cap", maxBytes)
			continue
		}
		targets = append(targets, target{path: path, size: info.Size()})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].size < targets[j].size })

	results := make([]Result, 0, len(targets))
	for _, tgt := range targets {
		results = append(results, r.ProcessFile(ctx, tgt.path, true))
		if ctx.Err() != nil {
			break
		}
	}
	return results, nil
}

// resolveSource returns the path to reprocess for a ledger row: the
// recorded source when it still exists, otherwise the first available
// PDF whose path parses to the same company and year.
func resolveSource(rec state.Record, available []string) string {
	if _, err := os.Stat(rec.Source); err == nil {
		return rec.Source
	}
	if rec.Company == "" {
		return ""
	}
	for _, path := range available {
		meta := ParsePath(path)
		if meta.Company == rec.Company && meta.Year == rec.Year {
			return path
		}
	}
	return ""
}

// recordFailure writes a failed row so retry can find the document.
// The write survives caller cancellation.
func (r *Runner) recordFailure(ctx context.Context, path string, meta DocMeta, cause error) {
	rec := state.Record{
		ID:          uuid.NewString(),
		Source:      path,
		Company:     meta.Company,
		Year:        meta.Year,
		Status:      model.StatusFailed,
		ProcessedAt: time.Now().UTC(),
		Error:       cause.Error(),
	}
	if err := r.ledger.RecordRun(context.WithoutCancel(ctx), rec); err != nil {
		r.log.Warn("failure not recorded", "doc", filepath.Base(path), "error", err)
	}
}

// alreadyExported reports whether outDir already holds a report.json
// for an input that has not changed since its ledger row was written.
func (r *Runner) alreadyExported(ctx context.Context, path, outDir string, modTime time.Time) bool {
	if _, err := os.Stat(filepath.Join(outDir, export.ReportJSONFile)); err != nil {
		return false
	}
	changed, err := r.ledger.ChangedSince(ctx, path, modTime)
	if err != nil {
		return false
	}
	return !changed
}

// exportDir is the per-document output directory, named from the
// parsed company, year, and file stem.
func (r *Runner) exportDir(path string, meta DocMeta) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var parts []string
	if meta.Company != "" {
		parts = append(parts, slug(meta.Company))
	}
	if meta.Year != 0 {
		parts = append(parts, strconv.Itoa(meta.Year))
	}
	parts = append(parts, slug(stem))
	return filepath.Join(r.cfg.OutputDir, strings.Join(parts, "_"))
}

// stubReport carries document identity for runs that never produced a
// full report, so batch summaries still get a row.
func stubReport(path string, meta DocMeta, status string) *model.Report {
	return &model.Report{
		Source:  path,
		Company: meta.Company,
		Year:    meta.Year,
		Status:  status,
	}
}

// slug lowercases s and joins its alphanumeric runs with underscores.
func slug(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return "doc"
	}
	return strings.Join(fields, "_")
}

// findPDFs returns every *.pdf under root, sorted by path.
func findPDFs(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if format.IsPDFName(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}
