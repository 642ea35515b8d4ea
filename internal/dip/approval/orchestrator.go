package approval

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
	"github.com/reimagineddocs/dip-backend/internal/dip/mapper"
	"github.com/reimagineddocs/dip-backend/internal/dip/trace"
)

// DocumentLookup is the single read against the document store.
type DocumentLookup interface {
	DocumentExists(ctx context.Context, docID string) (bool, error)
}

// Per-kind repository contracts. Each store is independent; that
// independence is what makes per-kind failure isolation possible.
type SpecStore interface {
	UpsertBatch(ctx context.Context, docID string, rows []domain.SpecRow) (int, error)
	DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error)
}

type GoldenStore interface {
	UpsertBatch(ctx context.Context, docID string, rows []domain.GoldenRow) (int, error)
	DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error)
}

type PlaybookStore interface {
	UpsertBatch(ctx context.Context, docID string, rows []domain.PlaybookRow) (int, error)
	DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error)
}

type IntentStore interface {
	UpsertBatch(ctx context.Context, docID string, rows []domain.IntentRow) (int, error)
	DeleteByApproval(ctx context.Context, docID, approvedBy string) (int64, error)
}

// Orchestrator owns one ApprovalRequest for the duration of a Commit call
// and keeps no state across calls.
type Orchestrator struct {
	docs      DocumentLookup
	specs     SpecStore
	goldens   GoldenStore
	playbooks PlaybookStore
	intents   IntentStore
	tracer    trace.Tracer
	now       func() time.Time
}

func NewOrchestrator(docs DocumentLookup, specs SpecStore, goldens GoldenStore, playbooks PlaybookStore, intents IntentStore, tracer trace.Tracer) *Orchestrator {
	if tracer == nil {
		tracer = trace.Nop()
	}
	return &Orchestrator{
		docs:      docs,
		specs:     specs,
		goldens:   goldens,
		playbooks: playbooks,
		intents:   intents,
		tracer:    tracer,
		now:       time.Now,
	}
}

// Commit validates the document reference, then persists the four kind
// batches concurrently. Outcomes are collected independently: one kind's
// persistence failure never blocks the others, and partial success is a
// valid, reportable result. Every persisted row carries the same
// (approvedBy, approvedAt) stamp.
func (o *Orchestrator) Commit(ctx context.Context, req domain.ApprovalRequest) (domain.ApprovalReport, error) {
	report := domain.ApprovalReport{DocID: req.DocID, ApprovedBy: req.ApprovedBy}

	if req.DocID == "" {
		return report, domain.ErrDocumentIDMissing
	}
	if req.ApprovedBy == "" {
		return report, domain.ErrApproverRequired
	}

	exists, err := o.docs.DocumentExists(ctx, req.DocID)
	if err != nil {
		return report, fmt.Errorf("document lookup: %w", err)
	}
	if !exists {
		return report, domain.ErrDocumentNotFound
	}

	prov := domain.Provenance{ApprovedBy: req.ApprovedBy, ApprovedAt: o.now().UTC()}
	report.ApprovedAt = prov.ApprovedAt

	specRows := make([]domain.SpecRow, len(req.Approved.SpecSuggestions))
	for i, s := range req.Approved.SpecSuggestions {
		specRows[i] = mapper.SpecRow(req.DocID, s)
		specRows[i].Provenance = prov
	}
	goldenRows := make([]domain.GoldenRow, len(req.Approved.GoldenTests))
	for i, g := range req.Approved.GoldenTests {
		goldenRows[i] = mapper.GoldenRow(req.DocID, g)
		goldenRows[i].Provenance = prov
	}
	playbookRows := make([]domain.PlaybookRow, len(req.Approved.PlaybookHints))
	for i, p := range req.Approved.PlaybookHints {
		playbookRows[i] = mapper.PlaybookRow(req.DocID, p)
		playbookRows[i].Provenance = prov
	}
	intentRows := make([]domain.IntentRow, len(req.Approved.Entities))
	for i, e := range req.Approved.Entities {
		intentRows[i] = mapper.IntentRow(req.DocID, e)
		intentRows[i].Provenance = prov
	}

	for _, kind := range domain.Kinds {
		o.tracer.Emit(trace.Event{Kind: kind, Stage: trace.StageMapped, Count: attemptedFor(kind, &req)})
	}

	// The four stores are disjoint, so the batches run in parallel.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		report.Spec = persistKind(o.tracer, domain.KindSpec, len(specRows), func() (int, error) {
			return o.specs.UpsertBatch(ctx, req.DocID, specRows)
		})
	}()
	go func() {
		defer wg.Done()
		report.Golden = persistKind(o.tracer, domain.KindGolden, len(goldenRows), func() (int, error) {
			return o.goldens.UpsertBatch(ctx, req.DocID, goldenRows)
		})
	}()
	go func() {
		defer wg.Done()
		report.Playbook = persistKind(o.tracer, domain.KindPlaybook, len(playbookRows), func() (int, error) {
			return o.playbooks.UpsertBatch(ctx, req.DocID, playbookRows)
		})
	}()
	go func() {
		defer wg.Done()
		report.Entity = persistKind(o.tracer, domain.KindIntent, len(intentRows), func() (int, error) {
			return o.intents.UpsertBatch(ctx, req.DocID, intentRows)
		})
	}()
	wg.Wait()

	return report, nil
}

// Rollback removes one approver's rows for a document from every store.
// Like Commit, per-store failures are isolated; the first error is
// returned after all stores have been attempted.
func (o *Orchestrator) Rollback(ctx context.Context, docID, approvedBy string) (domain.RollbackReport, error) {
	report := domain.RollbackReport{DocID: docID, ApprovedBy: approvedBy}

	if docID == "" {
		return report, domain.ErrDocumentIDMissing
	}
	if approvedBy == "" {
		return report, domain.ErrApproverRequired
	}

	var firstErr error
	record := func(n int64, err error) int64 {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return n
	}

	report.Spec = record(o.specs.DeleteByApproval(ctx, docID, approvedBy))
	report.Golden = record(o.goldens.DeleteByApproval(ctx, docID, approvedBy))
	report.Playbook = record(o.playbooks.DeleteByApproval(ctx, docID, approvedBy))
	report.Entity = record(o.intents.DeleteByApproval(ctx, docID, approvedBy))

	return report, firstErr
}

func persistKind(tracer trace.Tracer, kind domain.SuggestionKind, attempted int, upsert func() (int, error)) domain.Outcome {
	out := domain.Outcome{Attempted: attempted}
	if attempted == 0 {
		return out
	}

	n, err := upsert()
	if err != nil {
		out.Error = err.Error()
		tracer.Emit(trace.Event{Kind: kind, Stage: trace.StagePersisted, Count: 0, Note: err.Error()})
		return out
	}
	out.Persisted = n
	tracer.Emit(trace.Event{Kind: kind, Stage: trace.StagePersisted, Count: n})
	return out
}

func attemptedFor(kind domain.SuggestionKind, req *domain.ApprovalRequest) int {
	switch kind {
	case domain.KindSpec:
		return len(req.Approved.SpecSuggestions)
	case domain.KindGolden:
		return len(req.Approved.GoldenTests)
	case domain.KindPlaybook:
		return len(req.Approved.PlaybookHints)
	case domain.KindIntent:
		return len(req.Approved.Entities)
	}
	return 0
}
