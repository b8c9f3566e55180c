// Package journal holds the content-aggregation core: merging source text
// into one daily document, content statistics, date-window queries over
// persisted entries, and task normalization.
package journal

import (
	"strings"
	"unicode/utf8"

	"github.com/journalbackend/internal/models"
)

// Source channel names. These are the only channels Merge knows how to
// label; bundle keys outside this set are ignored by Merge.
const (
	SourceNotebook = "notebook" // handwritten notebook scans
	SourceVoice    = "voice"    // voice-note transcripts
	SourceNotes    = "notes"    // digital notes
)

// SourceBundle maps a source channel to its raw text for one date.
type SourceBundle map[string]string

// sourceOrder fixes the section order of the merged document.
var sourceOrder = []string{SourceNotebook, SourceVoice, SourceNotes}

var sourceLabels = map[string]string{
	SourceNotebook: "NOTEBOOK ENTRIES",
	SourceVoice:    "VOICE NOTES",
	SourceNotes:    "DIGITAL NOTES",
}

var sectionRule = strings.Repeat("=", 50)

// SourceNames returns the known source channels in merge order.
func SourceNames() []string {
	return append([]string(nil), sourceOrder...)
}

// Merge combines all source content into a single document. Sections
// appear in the fixed source order regardless of bundle key order; absent
// or empty sources produce no section. An empty bundle yields an empty
// document, not an error.
func Merge(sources SourceBundle) string {
	var sections []string

	for _, source := range sourceOrder {
		content := sources[source]
		if content == "" {
			continue
		}
		section := sectionRule + "\n" + sourceLabels[source] + "\n" + sectionRule + "\n\n" + content
		sections = append(sections, section)
	}

	return strings.Join(sections, "\n\n\n")
}

// Stats computes character and word counts over the bundle. Unlike Merge,
// SourcesUsed follows bundle iteration order rather than the fixed source
// order; callers that need the merge order must not rely on it.
func Stats(sources SourceBundle) models.ContentStats {
	stats := models.ContentStats{
		SourcesUsed: []string{},
		BySource:    map[string]models.SourceCounts{},
	}

	for source, content := range sources {
		if content == "" {
			continue
		}
		chars := utf8.RuneCountInString(content)
		words := len(strings.Fields(content))

		stats.SourcesUsed = append(stats.SourcesUsed, source)
		stats.TotalCharacters += chars
		stats.TotalWords += words
		stats.BySource[source] = models.SourceCounts{Characters: chars, Words: words}
	}

	return stats
}
