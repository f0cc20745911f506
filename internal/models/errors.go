package models

import (
	"errors"
	"fmt"
	"strings"
)

// AllowedDocumentFormats is the closed set of upload formats the
// normalizer accepts, surfaced to clients on rejection.
var AllowedDocumentFormats = []string{"txt", "pdf", "docx"}

// ErrDivisionByZeroScore guards the aggregation against an all-zero
// weight column. Unreachable while the importance set stays strictly
// positive, but the aggregator still checks it.
var ErrDivisionByZeroScore = errors.New("score aggregation: total weight is zero")

// UnsupportedFormatError reports an upload with a suffix outside the
// allowed set.
type UnsupportedFormatError struct {
	Filename string
	Allowed  []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format %q (allowed: %s)",
		e.Filename, strings.Join(e.Allowed, ", "))
}

// CorruptDocumentError reports a byte stream that does not parse as its
// claimed format. Client fault, never retried.
type CorruptDocumentError struct {
	Format string
	Err    error
}

func (e *CorruptDocumentError) Error() string {
	return fmt.Sprintf("corrupt %s document: %v", e.Format, e.Err)
}

func (e *CorruptDocumentError) Unwrap() error { return e.Err }

// PayloadNotJSONError reports a model response that could not be parsed
// as JSON even after substring recovery. Raw keeps the full response as
// the only audit trail of the non-compliant output.
type PayloadNotJSONError struct {
	Raw string
	Err error
}

func (e *PayloadNotJSONError) Error() string {
	return fmt.Sprintf("model response is not JSON: %v", e.Err)
}

func (e *PayloadNotJSONError) Unwrap() error { return e.Err }

// SchemaMismatchError reports a parsed payload that does not match the
// expected schema: not an object, required keys missing, or a bounded
// score that is not numeric.
type SchemaMismatchError struct {
	MissingKeys []string
	Detail      string
}

func (e *SchemaMismatchError) Error() string {
	if len(e.MissingKeys) > 0 {
		return fmt.Sprintf("model response missing required keys: %s",
			strings.Join(e.MissingKeys, ", "))
	}
	return fmt.Sprintf("model response schema mismatch: %s", e.Detail)
}

// InconsistentScoreDataError reports a weight/score matrix pair that
// violates the aggregation preconditions. Always a hard failure; a
// corrupted scorecard is worse than an explicit error.
type InconsistentScoreDataError struct {
	QuestionID string
	Detail     string
}

func (e *InconsistentScoreDataError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("inconsistent score data for question %s: %s", e.QuestionID, e.Detail)
	}
	return fmt.Sprintf("inconsistent score data: %s", e.Detail)
}
