package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Wrapped pairs a stable Code with an underlying cause, so callers can both
// log/return a stable code and preserve the original error via errors.Unwrap.
type Wrapped struct {
	Code  Code
	Cause error
}

func (w *Wrapped) Error() string {
	if w.Cause == nil {
		return string(w.Code)
	}
	return string(w.Code) + ": " + w.Cause.Error()
}

func (w *Wrapped) Unwrap() error { return w.Cause }

// Wrap annotates err with a stable code. Returns nil if err is nil.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Wrapped{Code: code, Cause: err}
}

// CodeOf extracts the Code from err if it (or something it wraps) is a
// *Wrapped; otherwise returns Internal.
func CodeOf(err error) Code {
	var w *Wrapped
	if errors.As(err, &w) {
		return w.Code
	}
	return Internal
}

// ErrorBody is the JSON shape written by WriteHTTP.
type ErrorBody struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Kind      string `json:"kind,omitempty"`
}

// WriteHTTP writes err as a JSON error body with the status implied by its code.
func WriteHTTP(w http.ResponseWriter, err error) {
	code := CodeOf(err)
	meta, ok := Meta(code)
	if !ok {
		code = Internal
		meta, _ = Meta(Internal)
	}
	body := ErrorBody{Code: code, Message: err.Error(), Retryable: meta.Retryable, Kind: meta.Kind}
	b, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(meta.HTTPStatus)
	_, _ = w.Write(b)
}
