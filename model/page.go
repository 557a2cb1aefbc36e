package model

// ExtractionMethod records how a page's text was obtained.
type ExtractionMethod int

const (
	// MethodDirect means text came straight from the PDF content stream.
	MethodDirect ExtractionMethod = iota
	// MethodOCR means text came from optical character recognition.
	MethodOCR
)

func (m ExtractionMethod) String() string {
	if m == MethodOCR {
		return "ocr"
	}
	return "direct"
}

// DocKind classifies how a document's text can be obtained.
type DocKind int

const (
	// KindUnknown means the document could not be sampled.
	KindUnknown DocKind = iota
	// KindText means enough sampled pages carry an extractable text layer.
	KindText
	// KindScanned means most sampled pages lack a text layer and need OCR.
	KindScanned
)

func (k DocKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindScanned:
		return "scanned"
	default:
		return "unknown"
	}
}

// PageText is the extracted text of one page.
type PageText struct {
	// Page is the 1-based page number.
	Page int

	// Text is the assembled page text.
	Text string

	// Method records the extraction path used for this page.
	Method ExtractionMethod
}

// CharCount returns the length of the page text in bytes.
func (p PageText) CharCount() int {
	return len(p.Text)
}

// ExtractionStats summarizes text coverage across a document's pages.
// A page counts as having content above 50 characters; the yield classes
// are empty (0), low (<=100), moderate (<=1000), and good (>1000).
type ExtractionStats struct {
	TotalPages       int
	PagesWithContent int
	CoveragePercent  float64
	AvgChars         float64

	EmptyPages    int
	LowPages      int
	ModeratePages int
	GoodPages     int

	MinChars    int
	MaxChars    int
	MedianChars float64
	StddevChars float64

	TotalChars int
}
