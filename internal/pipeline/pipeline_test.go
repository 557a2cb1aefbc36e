package pipeline

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/avinse/reportage/export"
	"github.com/avinse/reportage/internal/config"
	"github.com/avinse/reportage/internal/state"
	"github.com/avinse/reportage/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRunner(t *testing.T, outputDir string) *Runner {
	t.Helper()
	ledger, err := state.Open(outputDir)
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	cfg := config.Config{OutputDir: outputDir, Workers: 2, MaxRetryBytes: 100 << 20}
	r, err := NewRunner(cfg, ledger, discardLogger())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestExportDirNaming(t *testing.T) {
	r := &Runner{cfg: config.Config{OutputDir: "out"}}

	tests := []struct {
		path string
		want string
	}{
		{"reports/acme-industries/2023/annual.pdf", filepath.Join("out", "acme_industries_2023_annual")},
		{"report.pdf", filepath.Join("out", "report")},
		{"zeta/Annual Report 2022.pdf", filepath.Join("out", "zeta_2022_annual_report_2022")},
	}

	for _, tt := range tests {
		got := r.exportDir(tt.path, ParsePath(tt.path))
		if got != tt.want {
			t.Errorf("exportDir(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFindPDFs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x.pdf"), "x")
	writeFile(t, filepath.Join(root, "b", "y.PDF"), "y")
	writeFile(t, filepath.Join(root, "c", "notes.txt"), "n")

	paths, err := findPDFs(root)
	if err != nil {
		t.Fatalf("findPDFs: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}
	if filepath.Base(paths[0]) != "x.pdf" || filepath.Base(paths[1]) != "y.PDF" {
		t.Errorf("unexpected order: %v", paths)
	}
}

func TestProcessFileSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "acme", "2023", "annual.pdf")
	writeFile(t, src, "placeholder")

	out := filepath.Join(dir, "out")
	r := testRunner(t, out)

	// Pre-existing export with no ledger row counts as done.
	writeFile(t, filepath.Join(out, "acme_2023_annual", export.ReportJSONFile), "{}")

	res := r.ProcessFile(context.Background(), src, false)
	if !res.Skipped {
		t.Fatalf("document not skipped: err=%v", res.Err)
	}
	if res.Err != nil {
		t.Errorf("skip returned error: %v", res.Err)
	}
	if res.Report.Status != model.StatusSkipped {
		t.Errorf("status = %q, want %q", res.Report.Status, model.StatusSkipped)
	}
	if res.Report.Company != "acme" || res.Report.Year != 2023 {
		t.Errorf("identity = %q/%d, want acme/2023", res.Report.Company, res.Report.Year)
	}

	// force reprocesses; the placeholder is not a valid PDF, so the
	// run fails instead of skipping.
	res = r.ProcessFile(context.Background(), src, true)
	if res.Skipped {
		t.Error("forced run was skipped")
	}
	if res.Err == nil {
		t.Error("forced run of invalid PDF did not fail")
	}
}

func TestProcessFileFailureRecorded(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in", "acme", "2023", "annual.pdf")
	writeFile(t, src, "not a pdf")

	r := testRunner(t, filepath.Join(dir, "out"))

	res := r.ProcessFile(context.Background(), src, false)
	if res.Err == nil {
		t.Fatal("invalid PDF did not fail")
	}
	if res.Report.Status != model.StatusFailed {
		t.Errorf("status = %q, want %q", res.Report.Status, model.StatusFailed)
	}

	recs, err := r.ledger.ByStatus(context.Background(), model.StatusFailed)
	if err != nil {
		t.Fatalf("ByStatus: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d failed rows, want 1", len(recs))
	}
	if recs[0].Error == "" {
		t.Error("failed row has empty error")
	}
	if recs[0].Company != "acme" || recs[0].Year != 2023 {
		t.Errorf("identity = %q/%d, want acme/2023", recs[0].Company, recs[0].Year)
	}
}

func TestProcessBatchWritesSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "acme", "2023", "a.pdf"), "x")
	writeFile(t, filepath.Join(dir, "in", "zeta", "2022", "b.pdf"), "y")

	out := filepath.Join(dir, "out")
	r := testRunner(t, out)

	results, err := r.ProcessBatch(context.Background(), filepath.Join(dir, "in"), false)
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, res := range results {
		if res.Err == nil {
			t.Errorf("invalid PDF %s did not fail", res.Source)
		}
	}

	if _, err := os.Stat(filepath.Join(out, export.BatchSummaryFile)); err != nil {
		t.Errorf("batch summary not written: %v", err)
	}
}

func TestProcessBatchEmptyTree(t *testing.T) {
	r := testRunner(t, t.TempDir())

	if _, err := r.ProcessBatch(context.Background(), t.TempDir(), false); err == nil {
		t.Error("empty tree did not error")
	}
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "acme", "2023", "report.pdf")
	writeFile(t, existing, "x")
	moved := filepath.Join(dir, "moved", "acme", "2023", "annual.pdf")
	writeFile(t, moved, "y")

	if got := resolveSource(state.Record{Source: existing}, nil); got != existing {
		t.Errorf("existing source resolved to %q", got)
	}

	rec := state.Record{Source: filepath.Join(dir, "gone.pdf"), Company: "acme", Year: 2023}
	if got := resolveSource(rec, []string{moved}); got != moved {
		t.Errorf("moved source resolved to %q, want %q", got, moved)
	}

	anon := state.Record{Source: filepath.Join(dir, "gone.pdf")}
	if got := resolveSource(anon, []string{moved}); got != "" {
		t.Errorf("anonymous source resolved to %q, want empty", got)
	}
}
