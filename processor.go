package reportage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avinse/reportage/clean"
	"github.com/avinse/reportage/docclass"
	"github.com/avinse/reportage/layout"
	"github.com/avinse/reportage/model"
	"github.com/avinse/reportage/ocr"
	"github.com/avinse/reportage/pagetext"
	"github.com/avinse/reportage/reader"
	"github.com/avinse/reportage/sections"
	"github.com/avinse/reportage/tables"
)

// minDirectYield is the stripped character count below which a page of a
// scanned document is retried through OCR.
const minDirectYield = 100

// Processor provides a fluent interface for processing one annual-report
// document. Each configuration method returns a new Processor instance,
// making it safe to branch configurations and allowing method chaining.
//
// The first terminal operation runs the whole pipeline once and caches
// its results; every later operation answers from the cache, so mixing
// calls such as Text, Boundaries, and Report costs one pass over the
// document.
type Processor struct {
	// Source
	path string
	src  Provider

	// Lifecycle
	ownsReader   bool // true if we opened the source and should close it
	readerOpened bool // true if src has been opened

	// Configuration
	options Options

	// Accumulated error (fail-fast)
	err error

	// Results, populated once by load
	loaded      bool
	kind        model.DocKind
	kindKnown   bool
	info        model.DocInfo
	pages       []model.PageText
	cleaned     []model.PageText
	cleanReport clean.Report
	blocks      []model.TextBlock
	stats       model.ExtractionStats
	boundaries  map[model.SectionType]model.SectionBoundary
	sections    []model.SectionContent
	tables      []model.Table
	warnings    []model.Warning
	startedAt   time.Time
	finishedAt  time.Time
}

// clone creates a copy of the Processor so that each chain method
// returns a new instance. Result caches are shared between the copies;
// they are never mutated after load.
func (p *Processor) clone() *Processor {
	clone := *p
	clone.warnings = append([]model.Warning(nil), p.warnings...)
	return &clone
}

// ensureReader opens the document if not already open.
func (p *Processor) ensureReader() error {
	if p.readerOpened {
		if p.src == nil {
			return fmt.Errorf("document closed")
		}
		return nil
	}
	if p.path == "" {
		return fmt.Errorf("no document specified")
	}

	doc, err := reader.Open(p.path)
	if err != nil {
		return err
	}
	p.src = doc
	p.ownsReader = true
	p.readerOpened = true
	return nil
}

// Close releases the document source, if the Processor owns it. It is
// safe to call Close multiple times. Results cached by an earlier
// terminal operation stay available after Close.
func (p *Processor) Close() error {
	if p.ownsReader && p.src != nil {
		err := p.src.Close()
		p.src = nil
		p.ownsReader = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Processor instance)
// ============================================================================

// OCR enables the OCR fallback: pages of a scanned document whose direct
// extraction yields almost no text are rasterized and recognized. The
// default build ships without an OCR engine and records a warning
// instead; build with -tags ocr to enable recognition.
//
// Example:
//
//	rep, err := reportage.Open("scan.pdf").OCR().Report()
func (p *Processor) OCR() *Processor {
	clone := p.clone()
	clone.options.ocrEnabled = true
	return clone
}

// OCRLanguage sets the recognition language(s) and implies OCR. Join
// several languages with "+", for example "eng+fra".
//
// Example:
//
//	rep, err := reportage.Open("scan.pdf").OCRLanguage("eng+deu").Report()
func (p *Processor) OCRLanguage(lang string) *Processor {
	clone := p.clone()
	clone.options.ocrEnabled = true
	clone.options.ocrLang = lang
	return clone
}

// WithDetector replaces the default section detector, typically to load
// custom keyword tables or thresholds.
//
// Example:
//
//	kw, err := sections.LoadKeywords("keywords.yaml")
//	if err != nil {
//	    // handle error
//	}
//	d := sections.NewDetectorWith(
//	    sections.NewMatcherWith(sections.NewClassifier(), kw),
//	    sections.NewEndLocatorWith(sections.DefaultEndLocatorConfig(), sections.NewClassifier(), kw),
//	)
//	boundaries, err := reportage.Open("annual.pdf").WithDetector(d).Boundaries()
func (p *Processor) WithDetector(d *sections.Detector) *Processor {
	clone := p.clone()
	clone.options.detector = d
	return clone
}

// WithCleaning replaces the text-cleaning thresholds.
func (p *Processor) WithCleaning(config clean.Config) *Processor {
	clone := p.clone()
	clone.options.cleanConfig = config
	return clone
}

// WithAssembly replaces the page-assembly thresholds that control sheet
// and column splitting.
func (p *Processor) WithAssembly(config pagetext.Config) *Processor {
	clone := p.clone()
	clone.options.assembleConfig = config
	return clone
}

// WithTables replaces the table-detection thresholds.
func (p *Processor) WithTables(config tables.Config) *Processor {
	clone := p.clone()
	clone.options.tableConfig = config
	return clone
}

// WithContext attaches a context checked between pages and passed to
// external tools. Processing stops with the context's error once it is
// cancelled.
func (p *Processor) WithContext(ctx context.Context) *Processor {
	clone := p.clone()
	clone.options.ctx = ctx
	return clone
}

// ============================================================================
// Inspection Operations (leave the document open)
// ============================================================================

// PageCount returns the number of pages. The document remains open.
func (p *Processor) PageCount() (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if p.loaded {
		return len(p.pages), nil
	}
	if err := p.ensureReader(); err != nil {
		return 0, err
	}
	return p.src.PageCount(), nil
}

// Info returns the document metadata. The document remains open.
func (p *Processor) Info() (model.DocInfo, error) {
	if p.err != nil {
		return model.DocInfo{}, p.err
	}
	if p.loaded {
		return p.info, nil
	}
	if err := p.ensureReader(); err != nil {
		return model.DocInfo{}, err
	}
	return docInfo(p.src.Info()), nil
}

// Kind samples the leading pages and reports whether the document
// carries a text layer or is a scan. The document remains open.
func (p *Processor) Kind() (model.DocKind, error) {
	if p.err != nil {
		return model.KindUnknown, p.err
	}
	if p.kindKnown {
		return p.kind, nil
	}
	if err := p.ensureReader(); err != nil {
		return model.KindUnknown, err
	}
	p.kind, _ = docclass.Classify(p.src)
	p.kindKnown = true
	return p.kind, nil
}

// Warnings returns the non-fatal issues accumulated so far. It is
// usually read after a terminal operation.
func (p *Processor) Warnings() []model.Warning {
	return p.warnings
}

// ============================================================================
// Terminal Operations (run the pipeline and close the document)
// ============================================================================

// Text returns the raw extracted text of every page, joined under
// per-page headers. This is a terminal operation that closes an owned
// document.
//
// Example:
//
//	text, err := reportage.Open("annual-2024.pdf").Text()
func (p *Processor) Text() (string, error) {
	if err := p.load(); err != nil {
		return "", err
	}
	return pagetext.FullText(p.pages), nil
}

// CleanedText returns the cleaned text of every page, joined under
// per-page headers. This is a terminal operation that closes an owned
// document.
func (p *Processor) CleanedText() (string, error) {
	if err := p.load(); err != nil {
		return "", err
	}
	return pagetext.FullText(p.cleaned), nil
}

// PageTexts returns the raw extracted pages. This is a terminal
// operation that closes an owned document.
func (p *Processor) PageTexts() ([]model.PageText, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.pages, nil
}

// CleanedPages returns the cleaned pages along with a report of the
// repeated headers and footers that were stripped. This is a terminal
// operation that closes an owned document.
func (p *Processor) CleanedPages() ([]model.PageText, clean.Report, error) {
	if err := p.load(); err != nil {
		return nil, clean.Report{}, err
	}
	return p.cleaned, p.cleanReport, nil
}

// Stats summarizes extraction coverage over the raw pages. This is a
// terminal operation that closes an owned document.
func (p *Processor) Stats() (model.ExtractionStats, error) {
	if err := p.load(); err != nil {
		return model.ExtractionStats{}, err
	}
	return p.stats, nil
}

// Boundaries detects the section boundaries of the document. Sections
// that were not found are absent from the map. This is a terminal
// operation that closes an owned document.
//
// Example:
//
//	boundaries, err := reportage.Open("annual-2024.pdf").Boundaries()
//	if b, ok := boundaries[model.SectionMDNA]; ok {
//	    fmt.Printf("MD&A spans pages %d-%d\n", b.StartPage, b.EndPage)
//	}
func (p *Processor) Boundaries() (map[model.SectionType]model.SectionBoundary, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.boundaries, nil
}

// Sections returns the detected sections sliced from the cleaned pages.
// This is a terminal operation that closes an owned document.
func (p *Processor) Sections() ([]model.SectionContent, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.sections, nil
}

// Tables returns the tabular regions detected on each page, in page
// order. This is a terminal operation that closes an owned document.
func (p *Processor) Tables() ([]model.Table, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return p.tables, nil
}

// Report runs the whole pipeline and returns the output bundle: kind,
// metadata, raw and cleaned pages, statistics, boundaries, sections,
// tables, and warnings. Company and Year are left zero; callers that
// know the document's identity fill them in. This is a terminal
// operation that closes an owned document.
//
// Example:
//
//	rep, err := reportage.Open("annual-2024.pdf").OCR().Report()
func (p *Processor) Report() (*model.Report, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return &model.Report{
		Source:     p.path,
		Kind:       p.kind,
		Info:       p.info,
		Pages:      p.pages,
		Cleaned:    p.cleaned,
		Stats:      p.stats,
		Boundaries: p.boundaries,
		Sections:   p.sections,
		Tables:     p.tables,
		Warnings:   p.warnings,
		StartedAt:  p.startedAt,
		FinishedAt: p.finishedAt,
		Status:     model.StatusProcessed,
	}, nil
}

// ============================================================================
// Pipeline
// ============================================================================

// load runs the pipeline once: classify, extract, clean, detect, slice.
// Every terminal operation funnels through here; a failure is recorded
// so later calls fail the same way.
func (p *Processor) load() error {
	if p.err != nil {
		return p.err
	}
	if p.loaded {
		return nil
	}

	if err := p.ensureReader(); err != nil {
		p.err = err
		return err
	}
	defer p.Close()

	p.startedAt = time.Now()

	p.info = docInfo(p.src.Info())
	if !p.kindKnown {
		p.kind, _ = docclass.Classify(p.src)
		p.kindKnown = true
	}

	if err := p.extractPages(); err != nil {
		p.err = err
		return err
	}

	p.cleaned, p.cleanReport = clean.NewWithConfig(p.options.cleanConfig).Pages(p.pages)
	p.stats = pagetext.Stats(p.pages)

	detector := p.options.detector
	if detector == nil {
		detector = sections.NewDetector()
	}
	p.boundaries = detector.Detect(p.blocks)
	p.sections = p.sliceSections()

	p.finishedAt = time.Now()
	p.loaded = true
	return nil
}

// extractPages walks every page, grouping words into blocks for boundary
// detection, scanning them for tables, and assembling them into page
// text. Pages whose words cannot be parsed become empty pages with a
// warning. Low-yield pages of a scanned document go through OCR when
// enabled.
func (p *Processor) extractPages() error {
	assembler := pagetext.NewAssemblerWithConfig(p.options.assembleConfig)
	lines := layout.NewExtractor()
	tableDetector := tables.NewDetectorWithConfig(p.options.tableConfig)

	var ocrClient *ocr.Client
	ocrDown := false
	defer func() {
		if ocrClient != nil {
			ocrClient.Close()
		}
	}()

	count := p.src.PageCount()
	p.pages = make([]model.PageText, 0, count)

	for page := 1; page <= count; page++ {
		if err := p.options.ctx.Err(); err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}

		words, err := p.src.Words(page)
		if err != nil {
			p.pageWarning(page, err)
			p.pages = append(p.pages, model.PageText{Page: page, Method: model.MethodDirect})
			continue
		}

		p.blocks = append(p.blocks, lines.GroupWords(words, page)...)
		p.tables = append(p.tables, tableDetector.Detect(words, page)...)

		width, _ := p.src.PageSize(page)
		text := assembler.PageText(words, width)
		method := model.MethodDirect

		if p.needsOCR(text) && !ocrDown {
			if ocrClient == nil {
				c, err := p.newOCRClient()
				if err != nil {
					ocrDown = true
					p.warn(0, fmt.Sprintf("ocr unavailable: %v", err))
				} else {
					ocrClient = c
				}
			}
			if ocrClient != nil {
				switch recognized, err := p.recognizePage(ocrClient, page); {
				case err != nil:
					p.warn(page, fmt.Sprintf("ocr: %v", err))
				case recognized != "":
					text = recognized
					method = model.MethodOCR
				}
			}
		}

		p.pages = append(p.pages, model.PageText{Page: page, Text: text, Method: method})
	}
	return nil
}

// needsOCR reports whether a page's direct extraction yield is low
// enough to retry through OCR.
func (p *Processor) needsOCR(text string) bool {
	return p.options.ocrEnabled &&
		p.kind == model.KindScanned &&
		len(strings.TrimSpace(text)) < minDirectYield
}

// newOCRClient creates the recognition client. Rasterization shells out
// per page, so OCR only works for file-backed documents.
func (p *Processor) newOCRClient() (*ocr.Client, error) {
	if p.path == "" {
		return nil, fmt.Errorf("recognition requires a file-backed document")
	}
	c, err := ocr.New()
	if err != nil {
		return nil, err
	}
	if p.options.ocrLang != "" {
		if err := c.SetLanguage(p.options.ocrLang); err != nil {
			c.Close()
			return nil, fmt.Errorf("setting language %q: %w", p.options.ocrLang, err)
		}
	}
	return c, nil
}

// recognizePage rasterizes one page and runs recognition over it.
func (p *Processor) recognizePage(c *ocr.Client, page int) (string, error) {
	image, err := ocr.RasterizePage(p.options.ctx, p.path, page)
	if err != nil {
		return "", err
	}
	return c.RecognizeImage(image)
}

// sliceSections joins each detected boundary with the cleaned page text
// it spans, in detection order.
func (p *Processor) sliceSections() []model.SectionContent {
	var out []model.SectionContent
	for _, t := range model.SectionTypes() {
		boundary, ok := p.boundaries[t]
		if !ok {
			continue
		}
		if content, ok := sections.Content(boundary, p.cleaned); ok {
			out = append(out, content)
		}
	}
	return out
}

func (p *Processor) warn(page int, message string) {
	p.warnings = append(p.warnings, model.Warning{Page: page, Message: message})
}

// pageWarning records err against page, dropping the error's own page
// prefix when it would repeat the warning's.
func (p *Processor) pageWarning(page int, err error) {
	msg, _ := strings.CutPrefix(err.Error(), fmt.Sprintf("page %d: ", page))
	p.warn(page, msg)
}

// docInfo converts reader metadata to the exported form.
func docInfo(info reader.Info) model.DocInfo {
	return model.DocInfo{
		Title:    info.Title,
		Author:   info.Author,
		Created:  info.Created,
		FileSize: info.FileSize,
	}
}
