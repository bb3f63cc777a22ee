package sources

import (
	"errors"
	"fmt"
)

// Kind classifies source failures so callers can branch without reading messages
type Kind int

const (
	// KindUnknown is any failure that is not a source error
	KindUnknown Kind = iota
	// KindNoData means the source produced nothing usable
	KindNoData
	// KindMissingAPIToken means the credentialed source was requested without a token
	KindMissingAPIToken
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNoData:
		return "no data"
	case KindMissingAPIToken:
		return "missing API token"
	default:
		return "unknown"
	}
}

// Error is the error returned by question sources and the provider
type Error struct {
	Kind   Kind
	Source string
	Err    error
}

var (
	// ErrNoData matches any error of kind KindNoData
	ErrNoData = &Error{Kind: KindNoData}

	// ErrMissingAPIToken matches any error of kind KindMissingAPIToken
	ErrMissingAPIToken = &Error{Kind: KindMissingAPIToken}
)

// Error implements error
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Source != "" {
		msg = fmt.Sprintf("source %s: %s", e.Source, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target with a source also
// requires the source to match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Source == "" || t.Source == e.Source)
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// NewNoDataError reports that source produced nothing usable because of cause
func NewNoDataError(source string, cause error) error {
	return &Error{Kind: KindNoData, Source: source, Err: cause}
}

// NewMissingAPITokenError reports that source needs a token that is not configured
func NewMissingAPITokenError(source string) error {
	return &Error{Kind: KindMissingAPIToken, Source: source}
}
