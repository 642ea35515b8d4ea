package cleaner

import (
	"errors"
	"strings"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

var (
	errEmptyInput   = errors.New("empty raw text")
	errBadWrapper   = errors.New("wrapper key is not an array")
	errNotContainer = errors.New("raw text is not an object or array")
)

// Upstream prompts cap deduplicated golden tests and intent routes per
// document; the cleaner enforces the same bound.
const maxDedupedPerDoc = 25

// goldenFallbackExpected fills an empty expected result for golden tests.
const goldenFallbackExpected = "Expected result"

// Confidence floors applied when the field is absent or invalid.
const (
	defaultFloor  = 0.5
	playbookFloor = 0.8
)

// schema describes how one kind's candidates are validated and shaped.
// The cleaner family is this dispatch table, not four hand-written parsers.
type schema struct {
	kind        domain.SuggestionKind
	wrapperKeys []string
	floor       float64
	// build validates one candidate; a nil result carries the drop reason.
	build func(sc *schema, item map[string]any) (*domain.CleanedSuggestion, string)
	// dedupKey enables query-style deduplication when non-nil.
	dedupKey func(*domain.CleanedSuggestion) string
}

var schemas = map[domain.SuggestionKind]*schema{
	domain.KindSpec: {
		kind:        domain.KindSpec,
		wrapperKeys: []string{"spec_hints", "spec_suggestions"},
		floor:       defaultFloor,
		build:       buildSpec,
	},
	domain.KindGolden: {
		kind:        domain.KindGolden,
		wrapperKeys: []string{"golden_rules", "golden_tests"},
		floor:       defaultFloor,
		build:       buildGolden,
		dedupKey: func(cs *domain.CleanedSuggestion) string {
			return cs.Golden.Query
		},
	},
	domain.KindPlaybook: {
		kind:        domain.KindPlaybook,
		wrapperKeys: []string{"procedures", "playbook_hints"},
		floor:       playbookFloor,
		build:       buildPlaybook,
	},
	domain.KindIntent: {
		kind:        domain.KindIntent,
		wrapperKeys: []string{"intent_routes", "entities"},
		floor:       defaultFloor,
		build:       buildIntent,
		dedupKey: func(cs *domain.CleanedSuggestion) string {
			return cs.Intent.TriggerPhrase
		},
	},
}

func buildSpec(sc *schema, item map[string]any) (*domain.CleanedSuggestion, string) {
	hintType := stringField(item, "hint_type", "spec_name", "type")
	if hintType == "" {
		return nil, "missing hint_type"
	}
	value := stringField(item, "value", "spec_value")
	if value == "" {
		return nil, "missing value"
	}
	return &domain.CleanedSuggestion{
		Kind: domain.KindSpec,
		Spec: &domain.SpecSuggestion{
			HintType:   hintType,
			Value:      value,
			Unit:       stringField(item, "unit", "spec_unit"),
			Page:       page(item),
			Confidence: confidence(item, sc.floor),
			Context:    stringField(item, "context"),
		},
	}, ""
}

func buildGolden(sc *schema, item map[string]any) (*domain.CleanedSuggestion, string) {
	// First non-empty of test_name / description becomes the query.
	query := stringField(item, "test_name", "name")
	if query == "" {
		query = stringField(item, "description")
	}
	if query == "" {
		return nil, "missing test_name and description"
	}
	expected := stringField(item, "expected_result", "expected", "expected_value")
	if expected == "" {
		expected = goldenFallbackExpected
	}
	return &domain.CleanedSuggestion{
		Kind: domain.KindGolden,
		Golden: &domain.GoldenTest{
			Query:      query,
			Expected:   expected,
			Page:       page(item),
			Confidence: confidence(item, sc.floor),
			Context:    stringField(item, "context"),
		},
	}, ""
}

func buildPlaybook(sc *schema, item map[string]any) (*domain.CleanedSuggestion, string) {
	description := stringField(item, "description", "hint")
	if description == "" {
		return nil, "missing description"
	}
	testType := stringField(item, "test_type", "type")
	testName := stringField(item, "test_name", "name")
	if testName == "" && testType != "" {
		testName = titleWord(testType) + " Test"
	}
	return &domain.CleanedSuggestion{
		Kind: domain.KindPlaybook,
		Playbook: &domain.PlaybookHint{
			TestName:       testName,
			TestType:       testType,
			Description:    description,
			Steps:          stringSlice(item, "steps"),
			ExpectedResult: stringField(item, "expected_result", "expected"),
			Page:           page(item),
			Confidence:     confidence(item, sc.floor),
			Context:        stringField(item, "context"),
		},
	}, ""
}

func buildIntent(sc *schema, item map[string]any) (*domain.CleanedSuggestion, string) {
	trigger := stringField(item, "trigger_phrase", "question", "intent")
	if trigger == "" {
		return nil, "missing trigger_phrase"
	}
	mapped := stringField(item, "mapped_intent", "answer", "route_to")
	if mapped == "" {
		return nil, "missing mapped_intent"
	}
	return &domain.CleanedSuggestion{
		Kind: domain.KindIntent,
		Intent: &domain.IntentRoute{
			TriggerPhrase: trigger,
			MappedIntent:  mapped,
			Page:          page(item),
			Confidence:    confidence(item, sc.floor),
			Context:       stringField(item, "context"),
		},
	}, ""
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
