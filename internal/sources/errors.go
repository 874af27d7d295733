package sources

import (
	"fmt"
	"strings"

	apierrors "github.com/Ap3pp3rs94/hostfusion/pkg/errors"
)

// endOfDataMessage is the exact vendor sentinel for skip/limit exhaustion
// (original_source/src/api_clients/base_client.py END_OF_DATA_ERROR_MESSAGE).
const endOfDataMessage = "Error invalid skip/limit combo (>number of hosts)"

// invalidCursorMessage is Tenable's clean-termination sentinel.
const invalidCursorMessage = "Invalid cursor"

// vendorError describes one entry in a vendor error body's "error" list:
// {"code": "...", "message": "...", ...}.
type vendorError struct {
	Code    string
	Message string
}

// isConstraintViolation reports whether a vendor error entry indicates the
// caller's requested skip/limit violates a documented API constraint
// (as opposed to end-of-data, which is a clean termination signal).
func isConstraintViolation(e vendorError) bool {
	if strings.Contains(e.Code, "too_big") {
		return true
	}
	if strings.Contains(e.Message, "Number must be less than or equal to") {
		return true
	}
	return false
}

// isEndOfData reports whether a raw HTTP response body/text carries the
// skip/limit end-of-data sentinel.
func isEndOfData(bodyText string) bool {
	return strings.Contains(bodyText, endOfDataMessage)
}

// isInvalidCursor reports whether a raw response body/text is Tenable's
// clean cursor-termination sentinel.
func isInvalidCursor(bodyText string) bool {
	return strings.TrimSpace(bodyText) == invalidCursorMessage || strings.Contains(bodyText, invalidCursorMessage)
}

// wrapTransport classifies a low-level transport failure (connect, DNS,
// timeout, non-2xx) as apierrors.SourceTransport, retryable.
func wrapTransport(err error) error {
	return apierrors.Wrap(apierrors.SourceTransport, err)
}

// wrapConstraint classifies a vendor-side parameter rejection as
// apierrors.SourceConstraint, non-retryable; the skip/limit pager stops the
// source when it sees one.
func wrapConstraint(err error) error {
	return apierrors.Wrap(apierrors.SourceConstraint, err)
}

// apierrorsWrapEndOfData classifies the skip/limit end-of-data sentinel as
// apierrors.SourceEndOfData, a clean (non-error-to-the-caller) termination.
func apierrorsWrapEndOfData(bodyText string) error {
	return apierrors.Wrap(apierrors.SourceEndOfData, fmt.Errorf("end of data: %s", bodyText))
}

// apierrorsWrapInvalidCursor classifies Tenable's cursor sentinel as
// apierrors.SourceInvalidCursor, a clean termination.
func apierrorsWrapInvalidCursor(bodyText string) error {
	return apierrors.Wrap(apierrors.SourceInvalidCursor, fmt.Errorf("invalid cursor: %s", bodyText))
}
