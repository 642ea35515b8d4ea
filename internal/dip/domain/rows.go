package domain

import "time"

// Provenance is the approval stamp applied uniformly to every row persisted
// in one commit. ApprovedAt is taken once per commit so all kinds share it.
type Provenance struct {
	ApprovedBy string
	ApprovedAt time.Time
}

// Row is a canonical store row for one suggestion kind. The ID is assigned
// by the owning repository; rows are never mutated after persistence.
type Row interface {
	RowKind() SuggestionKind
}

type SpecRow struct {
	ID         string
	DocID      string
	HintType   string
	Value      string
	Unit       string
	Page       int
	Confidence float64
	Context    string
	Provenance
}

func (SpecRow) RowKind() SuggestionKind { return KindSpec }

type GoldenRow struct {
	ID         string
	DocID      string
	Query      string
	Expected   string
	Page       int
	Confidence float64
	Context    string
	Provenance
}

func (GoldenRow) RowKind() SuggestionKind { return KindGolden }

type PlaybookRow struct {
	ID             string
	DocID          string
	TestName       string
	TestType       string
	Description    string
	Steps          []string
	ExpectedResult string
	Page           int
	Confidence     float64
	Context        string
	Provenance
}

func (PlaybookRow) RowKind() SuggestionKind { return KindPlaybook }

type IntentRow struct {
	ID            string
	DocID         string
	TriggerPhrase string
	MappedIntent  string
	Page          int
	Confidence    float64
	Context       string
	Provenance
}

func (IntentRow) RowKind() SuggestionKind { return KindIntent }
