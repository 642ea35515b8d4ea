package dip_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diphttp "github.com/reimagineddocs/dip-backend/internal/api/http/dip"
	"github.com/reimagineddocs/dip-backend/internal/dip/cleaner"
	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/trace"
)

type fakeApprover struct {
	report      domain.ApprovalReport
	commitErr   error
	rollback    domain.RollbackReport
	rollbackErr error
	lastReq     domain.ApprovalRequest
}

func (f *fakeApprover) Commit(_ context.Context, req domain.ApprovalRequest) (domain.ApprovalReport, error) {
	f.lastReq = req
	return f.report, f.commitErr
}

func (f *fakeApprover) Rollback(_ context.Context, docID, approvedBy string) (domain.RollbackReport, error) {
	return f.rollback, f.rollbackErr
}

type fakePlaybookReader struct {
	rows []domain.PlaybookRow
	err  error
}

func (f *fakePlaybookReader) ListByApproval(_ context.Context, _, _ string) ([]domain.PlaybookRow, error) {
	return f.rows, f.err
}

func setupRouter(t *testing.T, approver *fakeApprover, playbooks *fakePlaybookReader) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := diphttp.NewHandler(cleaner.New(trace.Nop()), approver, playbooks)
	r := gin.New()
	handler.RegisterRoutes(r.Group("/api/v1/dip"))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleClean(t *testing.T) {
	r := setupRouter(t, &fakeApprover{}, &fakePlaybookReader{})

	t.Run("returns cleaned suggestions", func(t *testing.T) {
		body := `{"kind": "spec", "doc_id": "doc-1", "raw_text": "[{\"hint_type\": \"pressure\", \"value\": \"11\", \"unit\": \"bar\"}]"}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/suggestions/clean", body)

		require.Equal(t, http.StatusOK, w.Code)

		var resp diphttp.CleanResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
		assert.Equal(t, domain.KindSpec, resp.Kind)
	})

	t.Run("rejects an unknown kind", func(t *testing.T) {
		body := `{"kind": "mystery", "doc_id": "doc-1", "raw_text": "[]"}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/suggestions/clean", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed container is unprocessable", func(t *testing.T) {
		body := `{"kind": "golden", "doc_id": "doc-1", "raw_text": "not json"}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/suggestions/clean", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHandleExtract(t *testing.T) {
	r := setupRouter(t, &fakeApprover{}, &fakePlaybookReader{})

	t.Run("runs the extractors", func(t *testing.T) {
		body := `{"doc_id": "doc-1", "chunks": [{"content": "Pressure: 150 psi", "page": 1}]}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/extract", body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"spec_hints"`)
	})

	t.Run("requires doc_id", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/extract", `{"chunks": []}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleApprove(t *testing.T) {
	t.Run("returns the commit report", func(t *testing.T) {
		approver := &fakeApprover{
			report: domain.ApprovalReport{
				DocID:      "doc-1",
				ApprovedBy: "reviewer",
				Spec:       domain.Outcome{Attempted: 1, Persisted: 1},
			},
		}
		r := setupRouter(t, approver, &fakePlaybookReader{})

		body := `{"doc_id": "doc-1", "approved_by": "reviewer", "approved": {"spec_suggestions": [{"hint_type": "pressure", "value": "11", "confidence": 0.9}]}}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/approvals", body)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "doc-1", approver.lastReq.DocID)
		assert.Len(t, approver.lastReq.Approved.SpecSuggestions, 1)

		var report domain.ApprovalReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, 1, report.Spec.Persisted)
	})

	t.Run("unknown document maps to 404", func(t *testing.T) {
		approver := &fakeApprover{commitErr: domain.ErrDocumentNotFound}
		r := setupRouter(t, approver, &fakePlaybookReader{})

		body := `{"doc_id": "missing", "approved_by": "reviewer", "approved": {}}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/approvals", body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing approver maps to 400", func(t *testing.T) {
		approver := &fakeApprover{commitErr: domain.ErrApproverRequired}
		r := setupRouter(t, approver, &fakePlaybookReader{})

		body := `{"doc_id": "doc-1", "approved": {}}`
		w := doJSON(t, r, http.MethodPost, "/api/v1/dip/approvals", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleRollback(t *testing.T) {
	approver := &fakeApprover{
		rollback: domain.RollbackReport{DocID: "doc-1", ApprovedBy: "reviewer", Spec: 2},
	}
	r := setupRouter(t, approver, &fakePlaybookReader{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/dip/approvals/doc-1/reviewer", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report domain.RollbackReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, int64(2), report.Spec)
}

func TestHandleListPlaybooks(t *testing.T) {
	playbooks := &fakePlaybookReader{
		rows: []domain.PlaybookRow{{DocID: "doc-1", Description: "Disconnect power first"}},
	}
	r := setupRouter(t, &fakeApprover{}, playbooks)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dip/playbooks/doc-1/reviewer", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Disconnect power first")
}
