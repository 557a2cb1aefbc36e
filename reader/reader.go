package reader

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/avinse/reportage/model"
)

// US Letter, used when a page carries no resolvable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

const (
	// rowTolerance is the baseline Y tolerance for treating glyphs as part
	// of the same row during word assembly.
	rowTolerance = 2.0

	// wordGapFraction of the font size is the widest horizontal gap that
	// still joins two glyphs into one word.
	wordGapFraction = 0.3

	// minWordGap is the join threshold when the font size is unknown.
	minWordGap = 3.0
)

// Document is an open PDF backed by github.com/ledongthuc/pdf.
type Document struct {
	reader *pdflib.Reader
	closer io.Closer // nil when the caller owns the underlying reader
	size   int64
}

// Open opens the PDF at path. The returned Document holds the file open
// until Close is called.
func Open(path string) (*Document, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	return &Document{reader: r, closer: f, size: size}, nil
}

// NewFromReader reads a PDF from r, which must serve size bytes. The caller
// keeps ownership of r; Close on the returned Document is a no-op.
func NewFromReader(r io.ReaderAt, size int64) (*Document, error) {
	rd, err := pdflib.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return &Document{reader: rd, size: size}, nil
}

// NewFromFile reads a PDF from an already open file.
func NewFromFile(f *os.File) (*Document, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	doc, err := NewFromReader(f, info.Size())
	if err != nil {
		return nil, err
	}
	doc.closer = f
	return doc, nil
}

// Close releases the underlying file, if the Document owns one.
func (d *Document) Close() error {
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageSize returns the page's MediaBox dimensions in points, walking up the
// page tree for inherited boxes. Pages without a resolvable MediaBox report
// US Letter. Pages are 1-based.
func (d *Document) PageSize(page int) (width, height float64) {
	defer func() {
		if recover() != nil {
			width, height = defaultPageWidth, defaultPageHeight
		}
	}()

	if page < 1 || page > d.reader.NumPage() {
		return defaultPageWidth, defaultPageHeight
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return defaultPageWidth, defaultPageHeight
	}
	if w, h, ok := mediaBox(p.V); ok {
		return w, h
	}
	return defaultPageWidth, defaultPageHeight
}

// Words returns the page's text as positioned words in reading order: rows
// top to bottom, words left to right. Coordinates are top-referenced; see
// [model.Word]. A page whose content cannot be parsed returns an error, and
// the Document stays usable for other pages.
func (d *Document) Words(page int) (words []model.Word, err error) {
	// The underlying parser panics rather than returning errors on
	// malformed content streams and fonts.
	defer func() {
		if r := recover(); r != nil {
			words, err = nil, fmt.Errorf("page %d: content parse failed: %v", page, r)
		}
	}()

	p, err := d.page(page)
	if err != nil {
		return nil, err
	}
	_, pageHeight := d.PageSize(page)
	return assembleWords(p.Content().Text, pageHeight), nil
}

// PlainText returns the page's text without position information.
func (d *Document) PlainText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: content parse failed: %v", page, r)
		}
	}()

	p, err := d.page(page)
	if err != nil {
		return "", err
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("page %d: %w", page, err)
	}
	return text, nil
}

func (d *Document) page(page int) (pdflib.Page, error) {
	if page < 1 || page > d.reader.NumPage() {
		return pdflib.Page{}, fmt.Errorf("page %d: out of range 1..%d", page, d.reader.NumPage())
	}
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return pdflib.Page{}, fmt.Errorf("page %d: missing page object", page)
	}
	return p, nil
}

// Info is the document metadata from the PDF Info dictionary. String fields
// are empty and Created is the zero time when the document does not carry
// them.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	Created  time.Time
	Pages    int
	FileSize int64
}

// Info returns the document metadata. Malformed Info dictionaries degrade
// to whatever fields were readable.
func (d *Document) Info() (info Info) {
	info.Pages = d.reader.NumPage()
	info.FileSize = d.size

	defer func() {
		recover()
	}()

	dict := d.reader.Trailer().Key("Info")
	if dict.IsNull() {
		return info
	}
	info.Title = textValue(dict.Key("Title"))
	info.Author = textValue(dict.Key("Author"))
	info.Subject = textValue(dict.Key("Subject"))
	info.Creator = textValue(dict.Key("Creator"))
	info.Producer = textValue(dict.Key("Producer"))
	info.Created = parsePDFDate(textValue(dict.Key("CreationDate")))
	return info
}

// mediaBox walks the page tree upward until it finds a usable MediaBox.
func mediaBox(v pdflib.Value) (w, h float64, ok bool) {
	for depth := 0; depth < 16; depth++ {
		if box := v.Key("MediaBox"); !box.IsNull() && box.Len() == 4 {
			llx, lly := boxCoord(box.Index(0)), boxCoord(box.Index(1))
			urx, ury := boxCoord(box.Index(2)), boxCoord(box.Index(3))
			if urx > llx && ury > lly {
				return urx - llx, ury - lly, true
			}
		}
		parent := v.Key("Parent")
		if parent.IsNull() {
			break
		}
		v = parent
	}
	return 0, 0, false
}

func boxCoord(v pdflib.Value) float64 {
	switch v.Kind() {
	case pdflib.Integer:
		return float64(v.Int64())
	case pdflib.Real:
		return v.Float64()
	}
	return 0
}

func textValue(v pdflib.Value) string {
	if v.IsNull() {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// assembleWords merges per-glyph text items into words and converts their
// coordinates from the PDF bottom-left origin to top-referenced form. The
// word's font metrics come from its first glyph.
func assembleWords(texts []pdflib.Text, pageHeight float64) []model.Word {
	items := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		items = append(items, t)
	}
	if len(items) == 0 {
		return nil
	}

	var words []model.Word
	for _, row := range groupRows(items) {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

		var (
			text    string
			x0, x1  float64
			y, size float64
			open    bool
		)
		flush := func() {
			if !open {
				return
			}
			words = append(words, model.Word{
				Text:   strings.TrimSpace(text),
				X0:     x0,
				X1:     x1,
				Top:    pageHeight - y - size,
				Bottom: pageHeight - y,
				Height: size,
			})
			open = false
		}
		for _, t := range row {
			if open {
				limit := wordGapFraction * size
				if size == 0 {
					limit = minWordGap
				}
				if t.X-x1 <= limit {
					text += t.S
					if t.X+t.W > x1 {
						x1 = t.X + t.W
					}
					continue
				}
				flush()
			}
			text, x0, x1, y, size, open = t.S, t.X, t.X+t.W, t.Y, t.FontSize, true
		}
		flush()
	}
	return words
}

// groupRows buckets glyphs by baseline Y and orders the buckets top to
// bottom. PDF Y grows upward, so higher Y means nearer the page top.
func groupRows(items []pdflib.Text) [][]pdflib.Text {
	type bucket struct {
		yMin, yMax float64
		items      []pdflib.Text
	}

	var buckets []bucket
	for _, t := range items {
		placed := false
		for i := range buckets {
			if t.Y >= buckets[i].yMin-rowTolerance && t.Y <= buckets[i].yMax+rowTolerance {
				buckets[i].items = append(buckets[i].items, t)
				if t.Y < buckets[i].yMin {
					buckets[i].yMin = t.Y
				}
				if t.Y > buckets[i].yMax {
					buckets[i].yMax = t.Y
				}
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{yMin: t.Y, yMax: t.Y, items: []pdflib.Text{t}})
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].yMax > buckets[j].yMax })

	rows := make([][]pdflib.Text, len(buckets))
	for i, b := range buckets {
		rows[i] = b.items
	}
	return rows
}

// parsePDFDate parses the PDF date form D:YYYYMMDDHHmmSS with an optional
// Z or +HH'mm' zone suffix. Unparseable input yields the zero time.
func parsePDFDate(s string) time.Time {
	s = strings.TrimPrefix(strings.TrimSpace(s), "D:")
	if s == "" {
		return time.Time{}
	}
	s = strings.ReplaceAll(s, "'", "")

	layouts := []string{
		"20060102150405Z0700",
		"20060102150405Z07",
		"20060102150405",
		"200601021504",
		"2006010215",
		"20060102",
		"200601",
		"2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
