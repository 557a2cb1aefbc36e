package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/avinse/reportage/model"
)

// reportJSON is the wire shape of report.json. The model types stay
// free of serialization tags; this mirror pins the field names
// downstream tooling parses.
type reportJSON struct {
	Company        string        `json:"company"`
	Year           int           `json:"year"`
	Source         string        `json:"source"`
	Kind           string        `json:"kind"`
	Status         string        `json:"status"`
	ProcessedAt    string        `json:"processed_at,omitempty"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
	Info           docInfoJSON   `json:"info"`
	Statistics     statsJSON     `json:"statistics"`
	Sections       []sectionJSON `json:"sections"`
	Pages          []pageJSON    `json:"pages"`
	Warnings       []string      `json:"warnings,omitempty"`
}

type docInfoJSON struct {
	Title         string `json:"title,omitempty"`
	Author        string `json:"author,omitempty"`
	Created       string `json:"created,omitempty"`
	FileSizeBytes int64  `json:"file_size_bytes,omitempty"`
}

type statsJSON struct {
	TotalPages       int     `json:"total_pages"`
	PagesWithContent int     `json:"pages_with_content"`
	CoveragePercent  float64 `json:"coverage_percent"`
	AvgChars         float64 `json:"avg_chars"`
	EmptyPages       int     `json:"empty_pages"`
	LowPages         int     `json:"low_pages"`
	ModeratePages    int     `json:"moderate_pages"`
	GoodPages        int     `json:"good_pages"`
	MinChars         int     `json:"min_chars"`
	MaxChars         int     `json:"max_chars"`
	MedianChars      float64 `json:"median_chars"`
	StddevChars      float64 `json:"stddev_chars"`
	TotalChars       int     `json:"total_chars"`
}

type sectionJSON struct {
	SectionType     string  `json:"section_type"`
	StartPage       int     `json:"start_page"`
	EndPage         int     `json:"end_page"`
	Confidence      float64 `json:"confidence"`
	StartHeading    string  `json:"start_heading"`
	DetectionMethod string  `json:"detection_method"`
	CharacterCount  int     `json:"character_count,omitempty"`
	WordCount       int     `json:"word_count,omitempty"`
	Extracted       bool    `json:"extracted"`
}

type pageJSON struct {
	PageNumber       int    `json:"page_number"`
	CharacterCount   int    `json:"character_count"`
	ExtractionMethod string `json:"extraction_method"`
}

// sectionMetaJSON is one entry of sections_metadata.json, keyed by
// section type. A section that was not found keeps explicit nulls so
// consumers can distinguish "not found" from "not attempted".
type sectionMetaJSON struct {
	Boundary  *boundaryJSON     `json:"boundary"`
	Stats     *contentStatsJSON `json:"content_stats"`
	Extracted bool              `json:"extracted"`
	Note      string            `json:"note,omitempty"`
}

type boundaryJSON struct {
	SectionType     string  `json:"section_type"`
	StartPage       int     `json:"start_page"`
	EndPage         int     `json:"end_page"`
	Confidence      float64 `json:"confidence"`
	StartHeading    string  `json:"start_heading"`
	DetectionMethod string  `json:"detection_method"`
}

type contentStatsJSON struct {
	SectionType    string `json:"section_type"`
	StartPage      int    `json:"start_page"`
	EndPage        int    `json:"end_page"`
	CharacterCount int    `json:"character_count"`
	PageCount      int    `json:"page_count"`
}

func (e *Exporter) writeReportJSON(rep *model.Report) error {
	out := reportJSON{
		Company:        rep.Company,
		Year:           rep.Year,
		Source:         rep.Source,
		Kind:           rep.Kind.String(),
		Status:         rep.Status,
		ElapsedSeconds: round3(rep.Elapsed().Seconds()),
		Info: docInfoJSON{
			Title:         rep.Info.Title,
			Author:        rep.Info.Author,
			FileSizeBytes: rep.Info.FileSize,
		},
		Statistics: statsJSON{
			TotalPages:       rep.Stats.TotalPages,
			PagesWithContent: rep.Stats.PagesWithContent,
			CoveragePercent:  rep.Stats.CoveragePercent,
			AvgChars:         rep.Stats.AvgChars,
			EmptyPages:       rep.Stats.EmptyPages,
			LowPages:         rep.Stats.LowPages,
			ModeratePages:    rep.Stats.ModeratePages,
			GoodPages:        rep.Stats.GoodPages,
			MinChars:         rep.Stats.MinChars,
			MaxChars:         rep.Stats.MaxChars,
			MedianChars:      rep.Stats.MedianChars,
			StddevChars:      rep.Stats.StddevChars,
			TotalChars:       rep.Stats.TotalChars,
		},
		Sections: make([]sectionJSON, 0, len(rep.Boundaries)),
		Pages:    make([]pageJSON, 0, len(rep.Pages)),
	}
	if !rep.FinishedAt.IsZero() {
		out.ProcessedAt = rep.FinishedAt.Format(time.RFC3339)
	}
	if !rep.Info.Created.IsZero() {
		out.Info.Created = rep.Info.Created.Format(time.RFC3339)
	}

	for _, t := range model.SectionTypes() {
		b, ok := rep.Boundaries[t]
		if !ok {
			continue
		}
		entry := sectionJSON{
			SectionType:     t.String(),
			StartPage:       b.StartPage,
			EndPage:         b.EndPage,
			Confidence:      round3(b.Confidence),
			StartHeading:    b.HeadingText,
			DetectionMethod: b.Method,
		}
		if sec, ok := rep.Section(t); ok {
			entry.CharacterCount = sec.CharCount
			entry.WordCount = sec.WordCount
			entry.Extracted = true
		}
		out.Sections = append(out.Sections, entry)
	}

	for _, p := range rep.Pages {
		out.Pages = append(out.Pages, pageJSON{
			PageNumber:       p.Page,
			CharacterCount:   p.CharCount(),
			ExtractionMethod: p.Method.String(),
		})
	}

	for _, w := range rep.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}

	return e.writeJSON(ReportJSONFile, out)
}

func (e *Exporter) writeSectionsMeta(rep *model.Report) error {
	meta := make(map[string]sectionMetaJSON, len(model.SectionTypes()))
	for _, t := range model.SectionTypes() {
		entry := sectionMetaJSON{}
		if b, ok := rep.Boundaries[t]; ok {
			entry.Boundary = &boundaryJSON{
				SectionType:     t.String(),
				StartPage:       b.StartPage,
				EndPage:         b.EndPage,
				Confidence:      round3(b.Confidence),
				StartHeading:    b.HeadingText,
				DetectionMethod: b.Method,
			}
		} else {
			entry.Note = "Section not found in document"
		}
		if sec, ok := rep.Section(t); ok {
			entry.Stats = &contentStatsJSON{
				SectionType:    t.String(),
				StartPage:      sec.StartPage,
				EndPage:        sec.EndPage,
				CharacterCount: sec.CharCount,
				PageCount:      sec.PageCount(),
			}
			entry.Extracted = true
		}
		meta[t.String()] = entry
	}
	return e.writeJSON(SectionsMetaFile, meta)
}

func (e *Exporter) writeJSON(name string, v any) error {
	f, err := os.Create(e.path(name))
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	return nil
}

// round3 rounds to three decimal places for stable output files.
func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
