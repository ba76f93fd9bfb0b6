// Package service holds the external-service adapters that produce the
// profile sections: synchronous fast-path providers (overview, competitors,
// financials, team, sentiment) and long-running task adapters (deep research,
// deep browsing), plus the LLM extractor they share.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies adapter failures so callers can branch without matching
// error strings.
type Kind int

const (
	// KindCredentialMissing means the adapter's API key is not configured.
	KindCredentialMissing Kind = iota + 1
	// KindRequestFailed means a transport error or non-2xx response.
	KindRequestFailed
	// KindPollTimeout means a long-running task exhausted its attempt budget.
	KindPollTimeout
	// KindExtractionFailed means LLM output could not be parsed. Adapters
	// recover from this locally; it surfaces only in logs.
	KindExtractionFailed
	// KindNotFound means a requested record does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindCredentialMissing:
		return "credential_missing"
	case KindRequestFailed:
		return "request_failed"
	case KindPollTimeout:
		return "poll_timeout"
	case KindExtractionFailed:
		return "extraction_failed"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// Error is the adapter error type. Op names the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an Error.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err carries the given Kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}
