package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// rasterDPI is the pdftoppm render resolution for recognition input.
const rasterDPI = 300

// RasterizePage renders one PDF page to a PNG by shelling out to
// pdftoppm, which must be on PATH. A missing tool or an unrenderable
// page surfaces as an error the caller can downgrade to a page warning.
func RasterizePage(ctx context.Context, path string, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("page %d: out of range", page)
	}

	tmpDir, err := os.MkdirTemp("", "reportage-raster-*")
	if err != nil {
		return nil, fmt.Errorf("creating raster dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	pageArg := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png", "-r", strconv.Itoa(rasterDPI),
		"-f", pageArg, "-l", pageArg,
		"-singlefile", path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w (%s)", page, err, bytes.TrimSpace(out))
	}

	data, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("reading rendered page %d: %w", page, err)
	}
	return data, nil
}
