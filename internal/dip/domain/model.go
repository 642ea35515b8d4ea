package domain

import "time"

// SuggestionKind identifies one of the four suggestion categories produced
// by the extraction pass. The set is closed: a new kind needs its own
// cleaner schema and repository.
type SuggestionKind string

const (
	KindSpec     SuggestionKind = "spec"
	KindGolden   SuggestionKind = "golden"
	KindPlaybook SuggestionKind = "playbook"
	// KindIntent is the entity/intent-router kind. The approval wire format
	// keeps the upstream field names "entities" / "entity" for it.
	KindIntent SuggestionKind = "intent"
)

// Kinds lists every valid suggestion kind.
var Kinds = []SuggestionKind{KindSpec, KindGolden, KindPlaybook, KindIntent}

func (k SuggestionKind) Valid() bool {
	switch k {
	case KindSpec, KindGolden, KindPlaybook, KindIntent:
		return true
	}
	return false
}

// RawEnvelope carries one kind's raw model output for one document.
// Produced once per model call, consumed once by the matching cleaner.
type RawEnvelope struct {
	Kind    SuggestionKind `json:"kind"`
	DocID   string         `json:"doc_id"`
	RawText string         `json:"raw_text"`
}

// SpecSuggestion is a cleaned specification hint (e.g. pressure 11 bar).
type SpecSuggestion struct {
	HintType   string  `json:"hint_type"`
	Value      string  `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Page       int     `json:"page,omitempty"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context,omitempty"`
}

// GoldenTest is a cleaned retrieval test case (query plus expected answer).
type GoldenTest struct {
	Query      string  `json:"query"`
	Expected   string  `json:"expected"`
	Page       int     `json:"page,omitempty"`
	Confidence float64 `json:"confidence"`
	Context    string  `json:"context,omitempty"`
}

// PlaybookHint is a cleaned operational procedure suggestion.
type PlaybookHint struct {
	TestName       string   `json:"test_name"`
	TestType       string   `json:"test_type,omitempty"`
	Description    string   `json:"description"`
	Steps          []string `json:"steps,omitempty"`
	ExpectedResult string   `json:"expected_result,omitempty"`
	Page           int      `json:"page,omitempty"`
	Confidence     float64  `json:"confidence"`
	Context        string   `json:"context,omitempty"`
}

// IntentRoute is a cleaned trigger-phrase → intent mapping.
type IntentRoute struct {
	TriggerPhrase string  `json:"trigger_phrase"`
	MappedIntent  string  `json:"mapped_intent"`
	Page          int     `json:"page,omitempty"`
	Confidence    float64 `json:"confidence"`
	Context       string  `json:"context,omitempty"`
}

// CleanedSuggestion is the tagged variant shared by all four kinds. Exactly
// one payload pointer is set, matching Kind.
type CleanedSuggestion struct {
	Kind     SuggestionKind `json:"kind"`
	Spec     *SpecSuggestion `json:"spec,omitempty"`
	Golden   *GoldenTest     `json:"golden,omitempty"`
	Playbook *PlaybookHint   `json:"playbook,omitempty"`
	Intent   *IntentRoute    `json:"intent,omitempty"`
}

// ApprovedSets groups the reviewer-approved suggestions by kind. Any subset
// may be empty; absent arrays decode as empty.
type ApprovedSets struct {
	Entities        []IntentRoute    `json:"entities"`
	SpecSuggestions []SpecSuggestion `json:"spec_suggestions"`
	GoldenTests     []GoldenTest     `json:"golden_tests"`
	PlaybookHints   []PlaybookHint   `json:"playbook_hints"`
}

// ApprovalRequest is one reviewer decision for one document.
type ApprovalRequest struct {
	DocID      string       `json:"doc_id"`
	ApprovedBy string       `json:"approved_by"`
	Approved   ApprovedSets `json:"approved"`
}

// Outcome is the per-kind result of an approval commit.
type Outcome struct {
	Attempted int    `json:"attempted"`
	Persisted int    `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// ApprovalReport aggregates the independent per-kind outcomes of one commit.
// A failure in one kind never hides the others' results.
type ApprovalReport struct {
	DocID      string    `json:"doc_id"`
	ApprovedBy string    `json:"approved_by"`
	ApprovedAt time.Time `json:"approved_at"`
	Spec       Outcome   `json:"spec"`
	Golden     Outcome   `json:"golden"`
	Playbook   Outcome   `json:"playbook"`
	Entity     Outcome   `json:"entity"`
}

// RollbackReport counts rows removed per store by DeleteByApproval.
type RollbackReport struct {
	DocID      string `json:"doc_id"`
	ApprovedBy string `json:"approved_by"`
	Spec       int64  `json:"spec"`
	Golden     int64  `json:"golden"`
	Playbook   int64  `json:"playbook"`
	Entity     int64  `json:"entity"`
}
