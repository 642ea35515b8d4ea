package mapper_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/mapper"
)

func TestMap(t *testing.T) {
	t.Run("maps a spec suggestion to its row", func(t *testing.T) {
		row, err := mapper.Map("doc-1", domain.CleanedSuggestion{
			Kind: domain.KindSpec,
			Spec: &domain.SpecSuggestion{HintType: "pressure", Value: "11", Unit: "bar", Page: 2, Confidence: 0.9},
		})
		require.NoError(t, err)

		specRow, ok := row.(domain.SpecRow)
		require.True(t, ok)
		assert.Equal(t, "doc-1", specRow.DocID)
		assert.Equal(t, "pressure", specRow.HintType)
		assert.Equal(t, domain.KindSpec, specRow.RowKind())
	})

	t.Run("unknown kind is a contract violation", func(t *testing.T) {
		_, err := mapper.Map("doc-1", domain.CleanedSuggestion{Kind: domain.SuggestionKind("mystery")})
		var violation *domain.ContractViolation
		require.True(t, errors.As(err, &violation))
	})

	t.Run("kind tag without its payload is a contract violation", func(t *testing.T) {
		_, err := mapper.Map("doc-1", domain.CleanedSuggestion{Kind: domain.KindGolden})
		var violation *domain.ContractViolation
		require.True(t, errors.As(err, &violation))
	})
}

func TestGoldenRow_ExpectedDefault(t *testing.T) {
	row := mapper.GoldenRow("doc-1", domain.GoldenTest{Query: "verify pump startup"})
	assert.Equal(t, "Expected result", row.Expected)

	row = mapper.GoldenRow("doc-1", domain.GoldenTest{Query: "verify pump startup", Expected: "pump reaches 11 bar"})
	assert.Equal(t, "pump reaches 11 bar", row.Expected)
}

func TestPlaybookRow_CarriesSteps(t *testing.T) {
	row := mapper.PlaybookRow("doc-1", domain.PlaybookHint{
		TestName:    "Safety Test",
		Description: "Disconnect power before servicing",
		Steps:       []string{"open panel", "disconnect mains"},
	})
	assert.Equal(t, []string{"open panel", "disconnect mains"}, row.Steps)
	assert.Equal(t, domain.KindPlaybook, row.RowKind())
}
