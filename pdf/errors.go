package pdf

import "fmt"

// ValidationError reports input that was rejected before any page was processed,
// e.g. a missing file or something that is not a PDF.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ProcessingError reports a document-level failure. It aborts the whole
// extraction run, unlike per-image failures which are counted and skipped.
type ProcessingError struct {
	Reason string
	Err    error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *ProcessingError) Unwrap() error { return e.Err }
