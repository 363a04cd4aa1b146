package report

import (
	"regexp"
	"strings"
)

// The fixed labels the narrative model is instructed to emit.
const (
	labelSummary     = "Overall Summary"
	labelStrengths   = "Strengths"
	labelImprovement = "Areas of Improvement"
)

// Narrative holds the three labeled sections sliced out of the report
// narrative output. Missing sections are empty strings, never an error.
type Narrative struct {
	Summary           string
	Strengths         string
	AreaOfImprovement string
}

// ExtractNarrative runs the three independent label searches over the raw
// narrative text. Overlapping or out-of-order sections are tolerated because
// each search is anchored on its own label. Pure function.
func ExtractNarrative(raw string) Narrative {
	return Narrative{
		Summary:           extractLabeledSection(raw, labelSummary),
		Strengths:         extractLabeledSection(raw, labelStrengths),
		AreaOfImprovement: extractLabeledSection(raw, labelImprovement),
	}
}

// extractLabeledSection finds the case-insensitive `**Label:**` marker and
// captures everything up to the next `**` marker or the end of input, trimmed.
// The markdown convention lives only here.
func extractLabeledSection(text, label string) string {
	re := regexp.MustCompile(`(?is)\*\*` + regexp.QuoteMeta(label) + `:\*\*\s*(.*?)(?:\*\*|$)`)
	match := re.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
