package sections

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/avinse/reportage/model"
)

// Keywords holds the phrase tables driving boundary detection. Phrases
// are stored normalized (see [model.NormalizeText]), so lookups against
// normalized block text are plain substring checks and apostrophe or
// case variants in source documents still match.
type Keywords struct {
	// Sections maps each section type to its heading phrases, checked
	// in order; the first phrase contained in a block wins.
	Sections map[model.SectionType][]string

	// End lists financial-statement vocabulary. A heading-like block
	// containing one of these closes any open narrative section.
	End []string

	// Structural lists non-narrative report parts that bound a
	// stakeholder letter: board reports, governance disclosures,
	// annexures.
	Structural []string

	// NewNarrative lists phrases opening a different narrative region,
	// such as the highlights pages that typically follow a letter.
	NewNarrative []string
}

// DefaultKeywords returns the canonical phrase tables.
func DefaultKeywords() *Keywords {
	return &Keywords{
		Sections: map[model.SectionType][]string{
			model.SectionMDNA: normalizePhrases([]string{
				"management discussion and analysis",
				"management's discussion and analysis",
				"managements discussion and analysis",
				"md&a",
				"md a",
				"mda",
				"financial review",
			}),
			model.SectionLetter: normalizePhrases([]string{
				"letter to stakeholders",
				"letter to shareholders",
				"chairman's letter",
				"chairmans letter",
				"chairman's message",
				"chairmans message",
				"ceo message",
				"ceo's message",
				"message from the chairman",
				"message from the ceo",
				"president's message",
				"letter from the chairman",
				"letter from the ceo",
				"dear stakeholders",
				"dear shareholders",
			}),
		},
		End: normalizePhrases([]string{
			"financial statements",
			"consolidated financial statements",
			"notes to financial statements",
			"auditor's report",
			"auditors report",
			"independent auditor",
			"balance sheet",
			"income statement",
			"cash flow statement",
			"statement of financial position",
		}),
		Structural: normalizePhrases([]string{
			"board's report",
			"board report",
			"directors' report",
			"director's report",
			"annual return",
			"corporate governance",
			"annexure",
			"statutory reports",
		}),
		NewNarrative: normalizePhrases([]string{
			"financial highlights",
			"business overview",
			"company overview",
			"performance highlights",
		}),
	}
}

// ForSection returns the heading phrases for a section type.
func (k *Keywords) ForSection(t model.SectionType) []string {
	return k.Sections[t]
}

// normalizePhrases normalizes each phrase and drops empties and
// duplicates, preserving order.
func normalizePhrases(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		n := model.NormalizeText(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// keywordsFile is the YAML shape of an external keyword table.
type keywordsFile struct {
	Sections     map[string][]string `yaml:"sections"`
	End          []string            `yaml:"end"`
	Structural   []string            `yaml:"structural"`
	NewNarrative []string            `yaml:"new_narrative"`
}

// LoadKeywords reads keyword tables from a YAML file. Tables absent
// from the file keep their defaults, so a file can override a single
// list without restating the rest.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keywords: %w", err)
	}
	kw, err := ParseKeywords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kw, nil
}

// ParseKeywords parses YAML keyword tables, normalizing every phrase.
// Section names must parse via [model.ParseSectionType].
func ParseKeywords(data []byte) (*Keywords, error) {
	var file keywordsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing keywords: %w", err)
	}

	kw := DefaultKeywords()
	for name, phrases := range file.Sections {
		t, err := model.ParseSectionType(name)
		if err != nil {
			return nil, err
		}
		kw.Sections[t] = normalizePhrases(phrases)
	}
	if file.End != nil {
		kw.End = normalizePhrases(file.End)
	}
	if file.Structural != nil {
		kw.Structural = normalizePhrases(file.Structural)
	}
	if file.NewNarrative != nil {
		kw.NewNarrative = normalizePhrases(file.NewNarrative)
	}
	return kw, nil
}
