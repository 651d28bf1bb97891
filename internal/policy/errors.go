// Package policy is the HTTP gateway to the registry and quote services.
package policy

import "fmt"

// User-facing fallback messages.
const (
	MsgHolderLookupFailed = "No se pudo obtener la información del tomador."
	MsgQuoteFailed        = "Ocurrió un error al calcular la cotización."
)

// HolderLookupError is a failed registry lookup. Message is the server-supplied
// message when one was returned, otherwise MsgHolderLookupFailed.
type HolderLookupError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *HolderLookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("holder lookup failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("holder lookup failed: %s", e.Message)
}

func (e *HolderLookupError) Unwrap() error {
	return e.Cause
}

// QuoteCalculationError is a failed quote request. Message is always
// MsgQuoteFailed; the server body is never surfaced.
type QuoteCalculationError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *QuoteCalculationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quote calculation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("quote calculation failed: %s", e.Message)
}

func (e *QuoteCalculationError) Unwrap() error {
	return e.Cause
}

// RequestError is a transport-level failure: the request could not be built,
// sent, or its body read. Gateways wrap it in one of the step errors above.
type RequestError struct {
	URL     string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("request error for %s: %s", e.URL, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
