package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"

	"github.com/Ramsey-B/fern/pkg/raw"
)

var (
	ErrNoReservationRoot   = errors.New("no recognizable reservation root in document")
	ErrNoProfileRoot       = errors.New("no recognizable profile root in document")
	ErrNoUsableIdentity    = errors.New("profile has no usable identity")
	ErrUnsupportedDocument = raw.ErrUnsupportedDocument
)

// ExtractionError is a family-scoped extraction failure. It is logged and
// never returned from assembly.
type ExtractionError struct {
	Family  string
	Message string
}

func NewExtractionError(family string, cause any) *ExtractionError {
	return &ExtractionError{Family: family, Message: fmt.Sprint(cause)}
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("family '%s': extraction failed: %s", e.Family, e.Message)
}

// ReconciliationError is a failed two-phase pair for one family of one
// profile.
type ReconciliationError struct {
	ProfileID string `json:"profile_id"`
	Family    string `json:"family"`
	Message   string `json:"message"`
	cause     error
}

func NewReconciliationError(profileID, family string, cause error) *ReconciliationError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &ReconciliationError{ProfileID: profileID, Family: family, Message: msg, cause: cause}
}

func (e *ReconciliationError) Error() string {
	path := []string{}
	if e.ProfileID != "" {
		path = append(path, fmt.Sprintf("profile '%s'", e.ProfileID))
	}
	if e.Family != "" {
		path = append(path, fmt.Sprintf("family '%s'", e.Family))
	}
	if len(path) == 0 {
		return e.Message
	}
	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *ReconciliationError) Unwrap() error {
	return e.cause
}

func (e *ReconciliationError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusInternalServerError, e.Error()).AddMetaValue("profile_id", e.ProfileID).AddMetaValue("family", e.Family)
}

// BatchError records one document of a batch whose whole import failed.
type BatchError struct {
	Index    int    `json:"index"`
	SourceID string `json:"source_id,omitempty"`
	Message  string `json:"message"`
	cause    error
}

func NewBatchError(index int, sourceID string, cause error) *BatchError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &BatchError{Index: index, SourceID: sourceID, Message: msg, cause: cause}
}

func (e *BatchError) Error() string {
	if e.SourceID != "" {
		return fmt.Sprintf("document %d (%s): %s", e.Index, e.SourceID, e.Message)
	}
	return fmt.Sprintf("document %d: %s", e.Index, e.Message)
}

func (e *BatchError) Unwrap() error {
	return e.cause
}

// IsPrecondition reports whether err is one of the fatal input errors that
// must be surfaced to the caller instead of degraded.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoReservationRoot) ||
		errors.Is(err, ErrNoProfileRoot) ||
		errors.Is(err, ErrNoUsableIdentity) ||
		errors.Is(err, ErrUnsupportedDocument)
}

// ToHTTPError maps any import error onto an HTTPError. Precondition failures
// are the caller's fault.
func ToHTTPError(err error) *httperror.HTTPError {
	if err == nil {
		return nil
	}
	if httperror.IsHTTPError(err) {
		return httperror.ToHTTPError(err)
	}
	var recErr *ReconciliationError
	if errors.As(err, &recErr) {
		return recErr.ToHTTPError()
	}
	if IsPrecondition(err) {
		return httperror.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return httperror.NewHTTPError(http.StatusInternalServerError, err.Error())
}
