package dip

import (
	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/extractor"
)

type CleanRequest struct {
	Kind    string `json:"kind"`
	DocID   string `json:"doc_id"`
	RawText string `json:"raw_text"`
}

type CleanResponse struct {
	DocID       string                     `json:"doc_id"`
	Kind        domain.SuggestionKind      `json:"kind"`
	Count       int                        `json:"count"`
	Suggestions []domain.CleanedSuggestion `json:"suggestions"`
}

type ExtractRequest struct {
	DocID  string            `json:"doc_id"`
	Chunks []extractor.Chunk `json:"chunks"`
}
