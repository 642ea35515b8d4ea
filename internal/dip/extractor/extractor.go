package extractor

import (
	"sort"
	"strings"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

// Chunk is one text chunk of a parsed document.
type Chunk struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
}

// Entity is a recognized named value (manufacturer, model, warning, ...).
// Entities are informational for the reviewer; they are not one of the
// four persisted suggestion kinds.
type Entity struct {
	EntityType string  `json:"entity_type"`
	Value      string  `json:"value"`
	Page       int     `json:"page,omitempty"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context,omitempty"`
}

// TestProcedure is an extracted test candidate. Its name/description feed
// the golden-test fallback chain during cleaning.
type TestProcedure struct {
	TestName       string   `json:"test_name"`
	TestType       string   `json:"test_type"`
	Description    string   `json:"description"`
	Steps          []string `json:"steps,omitempty"`
	ExpectedResult string   `json:"expected_result,omitempty"`
	Page           int      `json:"page,omitempty"`
	Confidence     float64  `json:"confidence"`
	Context        string   `json:"context,omitempty"`
}

// Result groups everything extracted from one document's chunks.
type Result struct {
	DocID         string                  `json:"doc_id"`
	Entities      []Entity                `json:"entities"`
	SpecHints     []domain.SpecSuggestion `json:"spec_hints"`
	GoldenTests   []TestProcedure         `json:"golden_tests"`
	PlaybookHints []domain.PlaybookHint   `json:"playbook_hints"`
	PagesSeen     int                     `json:"pages_processed"`
}

const (
	contextWindow      = 100
	maxSteps           = 5
	minEntityValueLen  = 3
	minDescriptionLen  = 6
	baseConfidence     = 0.7
	playbookConfidence = 0.8
)

// Entities extracts named entities from the chunks.
func Entities(chunks []Chunk) []Entity {
	var out []Entity
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		for _, entityType := range sortedKeys(entityPatterns) {
			for _, re := range entityPatterns[entityType] {
				for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
					value := strings.TrimSpace(group(content, m, 1))
					if len(value) < minEntityValueLen {
						continue
					}
					out = append(out, Entity{
						EntityType: entityType,
						Value:      value,
						Page:       chunk.Page,
						Confidence: matchConfidence(content[m[0]:m[1]]),
						Context:    contextAround(content, m[0], m[1]),
					})
				}
			}
		}
	}
	return out
}

// SpecHints extracts specification hints (typed value + unit) from chunks.
func SpecHints(chunks []Chunk) []domain.SpecSuggestion {
	var out []domain.SpecSuggestion
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		for _, hintType := range sortedKeys(specHintPatterns) {
			for _, re := range specHintPatterns[hintType] {
				for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
					value := strings.TrimSpace(group(content, m, 1))
					if value == "" {
						continue
					}
					out = append(out, domain.SpecSuggestion{
						HintType:   hintType,
						Value:      value,
						Unit:       normalizeUnit(group(content, m, 2)),
						Page:       chunk.Page,
						Confidence: matchConfidence(content[m[0]:m[1]]),
						Context:    contextAround(content, m[0], m[1]),
					})
				}
			}
		}
	}
	return out
}

// GoldenTests extracts test procedures from chunks. The surrounding
// context doubles as the expected result, and numbered steps found after
// the match are captured.
func GoldenTests(chunks []Chunk) []TestProcedure {
	var out []TestProcedure
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		for _, testType := range sortedKeys(goldenTestPatterns) {
			for _, re := range goldenTestPatterns[testType] {
				for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
					description := strings.TrimSpace(group(content, m, 1))
					if len(description) < minDescriptionLen {
						continue
					}
					ctx := contextAround(content, m[0], m[1])
					out = append(out, TestProcedure{
						TestName:       titleWord(testType) + " Test",
						TestType:       testType,
						Description:    description,
						Steps:          extractSteps(content, m[0]),
						ExpectedResult: ctx,
						Page:           chunk.Page,
						Confidence:     matchConfidence(content[m[0]:m[1]]),
						Context:        ctx,
					})
				}
			}
		}
	}
	return out
}

// PlaybookHints extracts imperative instruction lines from chunks.
func PlaybookHints(chunks []Chunk) []domain.PlaybookHint {
	var out []domain.PlaybookHint
	for _, chunk := range chunks {
		for _, line := range strings.Split(chunk.Content, "\n") {
			stripped := strings.TrimSpace(line)
			if stripped == "" {
				continue
			}
			lower := strings.ToLower(stripped)
			for _, re := range imperativePatterns {
				if re.MatchString(lower) {
					out = append(out, domain.PlaybookHint{
						Description: stripped,
						Page:        chunk.Page,
						Confidence:  playbookConfidence,
					})
					break
				}
			}
		}
	}
	return out
}

// Process runs every extractor over the chunks for one document.
func Process(docID string, chunks []Chunk) Result {
	pages := make(map[int]bool, len(chunks))
	for _, c := range chunks {
		pages[c.Page] = true
	}
	return Result{
		DocID:         docID,
		Entities:      Entities(chunks),
		SpecHints:     SpecHints(chunks),
		GoldenTests:   GoldenTests(chunks),
		PlaybookHints: PlaybookHints(chunks),
		PagesSeen:     len(pages),
	}
}

// matchConfidence starts at the base and is boosted by match length and
// the presence of measurement units, capped at 1.0.
func matchConfidence(match string) float64 {
	confidence := baseConfidence
	switch {
	case len(match) > 20:
		confidence += 0.1
	case len(match) > 10:
		confidence += 0.05
	}
	for _, unit := range boostUnits {
		if strings.Contains(match, unit) {
			confidence += 0.1
			break
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

func contextAround(content string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(content) {
		to = len(content)
	}
	return strings.TrimSpace(content[from:to])
}

// extractSteps captures numbered steps within 500 chars after the match.
func extractSteps(content string, matchStart int) []string {
	to := matchStart + 500
	if to > len(content) {
		to = len(content)
	}
	var steps []string
	for _, m := range stepPattern.FindAllStringSubmatch(content[matchStart:to], -1) {
		step := strings.TrimSpace(m[2])
		if len(step) > 5 {
			steps = append(steps, step)
		}
		if len(steps) == maxSteps {
			break
		}
	}
	return steps
}

func normalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(unit, " ", ""))
}

func group(content string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return content[m[2*i]:m[2*i+1]]
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sortedKeys gives deterministic extraction order across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
