package planner

import "fmt"

// UpstreamError marks a transport-level failure of the generation service. It
// is fatal to the current request and never retried.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation service request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError reports that every parse stage failed. Raw carries the offending
// response text for diagnostics; it is never substituted with guessed content.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("generated text is not valid plan JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// QualityError reports that the regenerated plan still missed the minimum
// acceptance criteria. The system does not accept a sub-minimum plan.
type QualityError struct {
	ItemCount int
}

func (e *QualityError) Error() string {
	return fmt.Sprintf("generated plan below minimum acceptance after regeneration (%d items)", e.ItemCount)
}
