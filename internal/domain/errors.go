package domain

import (
	"fmt"
	"time"
)

// ConfigurationError means the catalog source is missing, invalid or misconfigured.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// FetchError is a failed CSV download: network failure, non-2xx status or an HTML page
// where CSV was expected.
type FetchError struct {
	URL    string
	Status int
	HTML   bool
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.HTML:
		return fmt.Sprintf("sheet returned an HTML page instead of CSV (status %d); make sure the sheet is published to the web as CSV", e.Status)
	case e.Status != 0:
		return fmt.Sprintf("failed to fetch sheet: status %d", e.Status)
	case e.Err != nil:
		return fmt.Sprintf("could not fetch product data: %v", e.Err)
	}
	return "could not fetch product data"
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError describes a single spreadsheet row that was skipped.
type ParseError struct {
	Row    int
	ID     string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("row %d (%s): %s: %s", e.Row, e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// StaleDataWarning accompanies products served from an expired cache after a failed refresh.
type StaleDataWarning struct {
	Age   time.Duration
	Cause error
}

func (w *StaleDataWarning) Error() string {
	return fmt.Sprintf("serving cached products (%s old): %v", w.Age.Round(time.Second), w.Cause)
}

func (w *StaleDataWarning) Unwrap() error { return w.Cause }

// SubmissionError is a failed hand-off to the order automation endpoint.
type SubmissionError struct {
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("order submission failed: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("order submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
