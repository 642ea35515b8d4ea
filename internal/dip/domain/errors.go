package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrUnknownKind       = errors.New("unknown suggestion kind")
	ErrApproverRequired  = errors.New("approved_by is required")
	ErrDocumentIDMissing = errors.New("doc_id is required")
)

// ParseError means a kind's raw text is not a well-formed container at all.
// The whole kind-batch is skipped; individual malformed items inside a
// well-formed container are dropped with a warning instead.
type ParseError struct {
	Kind  SuggestionKind
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s suggestions: %v", e.Kind, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ContractViolation marks a programming defect, such as dispatching an
// unrecognized kind tag to the mapper. It halts the offending call path.
type ContractViolation struct {
	Op   string
	Kind SuggestionKind
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("%s: contract violation for kind %q", e.Op, e.Kind)
}
