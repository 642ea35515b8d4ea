package dip

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reimagineddocs/dip-backend/internal/dip/cleaner"
	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/extractor"
)

// Approver is the approval pipeline as the HTTP layer sees it.
type Approver interface {
	Commit(ctx context.Context, req domain.ApprovalRequest) (domain.ApprovalReport, error)
	Rollback(ctx context.Context, docID, approvedBy string) (domain.RollbackReport, error)
}

// PlaybookReader lists stored playbook hints for one (document, approver).
type PlaybookReader interface {
	ListByApproval(ctx context.Context, docID, approvedBy string) ([]domain.PlaybookRow, error)
}

type Handler struct {
	cleaner   *cleaner.Cleaner
	approver  Approver
	playbooks PlaybookReader
}

func NewHandler(c *cleaner.Cleaner, approver Approver, playbooks PlaybookReader) *Handler {
	return &Handler{cleaner: c, approver: approver, playbooks: playbooks}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/suggestions/clean", h.HandleClean)
	rg.POST("/extract", h.HandleExtract)
	rg.POST("/approvals", h.HandleApprove)
	rg.DELETE("/approvals/:doc_id/:approved_by", h.HandleRollback)
	rg.GET("/playbooks/:doc_id/:approved_by", h.HandleListPlaybooks)
}

// HandleClean parses one kind's raw model output into cleaned suggestions.
func (h *Handler) HandleClean(c *gin.Context) {
	var req CleanRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	kind := domain.SuggestionKind(req.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown kind: " + req.Kind})
		return
	}

	suggestions, err := h.cleaner.Clean(domain.RawEnvelope{
		Kind:    kind,
		DocID:   req.DocID,
		RawText: req.RawText,
	})
	if err != nil {
		var parseErr *domain.ParseError
		if errors.As(err, &parseErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.Printf("clean failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clean failed"})
		return
	}

	c.JSON(http.StatusOK, CleanResponse{
		DocID:       req.DocID,
		Kind:        kind,
		Count:       len(suggestions),
		Suggestions: suggestions,
	})
}

// HandleExtract runs the regex extractors over a document's chunks.
func (h *Handler) HandleExtract(c *gin.Context) {
	var req ExtractRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.DocID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doc_id is required"})
		return
	}

	c.JSON(http.StatusOK, extractor.Process(req.DocID, req.Chunks))
}

// HandleApprove commits one reviewer decision. Per-kind failures surface in
// the report, not as an HTTP error; only validation and the document lookup
// can fail the request outright.
func (h *Handler) HandleApprove(c *gin.Context) {
	var req domain.ApprovalRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return
	}

	report, err := h.approver.Commit(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		case errors.Is(err, domain.ErrDocumentIDMissing), errors.Is(err, domain.ErrApproverRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("approval commit failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "approval failed"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// HandleRollback removes one approver's rows for a document from all stores.
func (h *Handler) HandleRollback(c *gin.Context) {
	docID := c.Param("doc_id")
	approvedBy := c.Param("approved_by")

	report, err := h.approver.Rollback(c.Request.Context(), docID, approvedBy)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDocumentIDMissing), errors.Is(err, domain.ErrApproverRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("rollback failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rollback failed", "report": report})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// HandleListPlaybooks returns the stored playbook hints for one approval.
func (h *Handler) HandleListPlaybooks(c *gin.Context) {
	docID := c.Param("doc_id")
	approvedBy := c.Param("approved_by")
	if docID == "" || approvedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doc_id and approved_by are required"})
		return
	}

	rows, err := h.playbooks.ListByApproval(c.Request.Context(), docID, approvedBy)
	if err != nil {
		log.Printf("list playbooks failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list playbook hints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"doc_id": docID, "approved_by": approvedBy, "hints": rows, "count": len(rows)})
}
