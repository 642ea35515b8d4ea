package mapper

import "github.com/reimagineddocs/dip-backend/internal/dip/domain"

// Map turns a cleaned suggestion into the canonical row for its target
// store. Pure, no I/O. A kind tag without a registered mapping is a
// programming defect and surfaces as ContractViolation.
func Map(docID string, cs domain.CleanedSuggestion) (domain.Row, error) {
	switch cs.Kind {
	case domain.KindSpec:
		if cs.Spec == nil {
			return nil, &domain.ContractViolation{Op: "mapper.Map", Kind: cs.Kind}
		}
		return SpecRow(docID, *cs.Spec), nil
	case domain.KindGolden:
		if cs.Golden == nil {
			return nil, &domain.ContractViolation{Op: "mapper.Map", Kind: cs.Kind}
		}
		return GoldenRow(docID, *cs.Golden), nil
	case domain.KindPlaybook:
		if cs.Playbook == nil {
			return nil, &domain.ContractViolation{Op: "mapper.Map", Kind: cs.Kind}
		}
		return PlaybookRow(docID, *cs.Playbook), nil
	case domain.KindIntent:
		if cs.Intent == nil {
			return nil, &domain.ContractViolation{Op: "mapper.Map", Kind: cs.Kind}
		}
		return IntentRow(docID, *cs.Intent), nil
	}
	return nil, &domain.ContractViolation{Op: "mapper.Map", Kind: cs.Kind}
}

func SpecRow(docID string, s domain.SpecSuggestion) domain.SpecRow {
	return domain.SpecRow{
		DocID:      docID,
		HintType:   s.HintType,
		Value:      s.Value,
		Unit:       s.Unit,
		Page:       s.Page,
		Confidence: s.Confidence,
		Context:    s.Context,
	}
}

func GoldenRow(docID string, g domain.GoldenTest) domain.GoldenRow {
	expected := g.Expected
	if expected == "" {
		expected = "Expected result"
	}
	return domain.GoldenRow{
		DocID:      docID,
		Query:      g.Query,
		Expected:   expected,
		Page:       g.Page,
		Confidence: g.Confidence,
		Context:    g.Context,
	}
}

func PlaybookRow(docID string, p domain.PlaybookHint) domain.PlaybookRow {
	return domain.PlaybookRow{
		DocID:          docID,
		TestName:       p.TestName,
		TestType:       p.TestType,
		Description:    p.Description,
		Steps:          p.Steps,
		ExpectedResult: p.ExpectedResult,
		Page:           p.Page,
		Confidence:     p.Confidence,
		Context:        p.Context,
	}
}

func IntentRow(docID string, r domain.IntentRoute) domain.IntentRow {
	return domain.IntentRow{
		DocID:         docID,
		TriggerPhrase: r.TriggerPhrase,
		MappedIntent:  r.MappedIntent,
		Page:          r.Page,
		Confidence:    r.Confidence,
		Context:       r.Context,
	}
}
