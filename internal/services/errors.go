package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNavigation      = errors.New("navigation timeout")
	ErrControlNotFound = errors.New("interactive element not found")
	ErrSubmission      = errors.New("submission failed")
	ErrResultWait      = errors.New("result wait timeout")
	ErrExtraction      = errors.New("extraction failure")
	ErrEngine          = errors.New("browser engine error")
	ErrValidation      = errors.New("validation error")
	ErrConfiguration   = errors.New("configuration error")
)

// Wrap builds an error message that includes retrieval context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrEngine
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind maps an error to the short failure label recorded on outcomes and in
// the run journal. Unrecognized errors classify as engine failures.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNavigation):
		return "navigation_timeout"
	case errors.Is(err, ErrControlNotFound):
		return "element_not_found"
	case errors.Is(err, ErrSubmission):
		return "submission_failed"
	case errors.Is(err, ErrResultWait):
		return "result_wait_timeout"
	case errors.Is(err, ErrExtraction):
		return "extraction_failure"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "engine_error"
	}
}

// Expected reports whether the error describes an outcome the pipeline treats
// as a normal negative result rather than an operational fault. A result wait
// that lapses usually means the portal had nothing to show for the query.
func Expected(err error) bool {
	return errors.Is(err, ErrResultWait)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
