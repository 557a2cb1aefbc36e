// Package sections detects narrative section boundaries in annual
// reports.
//
// Annual reports carry no structural tagging, so the only evidence for
// where the Management Discussion & Analysis or the Letter to
// Stakeholders begins is visual: a short line, set larger than the text
// around it, high on an early page, containing a known heading phrase.
// This package turns that evidence into scored [model.SectionBoundary]
// values.
//
// # Pipeline
//
// [Classifier] decides whether a block could be a heading at all.
// [Matcher] scans every block, keeps the ones that pass the classifier
// and contain a keyword, scores them, and selects the best candidate
// per section type. [EndLocator] walks forward from a confirmed start
// looking for the signal that the section has ended. [Detector] runs
// the chain for every supported section type and assembles the result
// map.
//
// # Keywords
//
// The phrase tables in [Keywords] are configuration, not code: they can
// be replaced from a YAML file without touching the scoring rules. All
// phrases are normalized the same way block text is, so "Chairman's
// Message" and "chairmans message" both match.
//
// Detection is deterministic and pure: the same block sequence always
// produces the same boundaries, and nothing here performs I/O.
package sections
