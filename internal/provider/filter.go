package provider

import (
	"strings"

	"github.com/David256/quizzed-backend/internal/sources"
)

// Filter restricts which question sources a Manager may use
type Filter string

const (
	// FilterNone lets the Manager use every source whose preconditions hold
	FilterNone Filter = ""
	// FilterQuizAPI uses only QuizAPI
	FilterQuizAPI Filter = sources.SourceQuizAPI
	// FilterOpenTDB uses only the Open Trivia DB
	FilterOpenTDB Filter = sources.SourceOpenTDB
	// FilterLocal uses only the built-in questions
	FilterLocal Filter = sources.SourceLocal
)

// ParseFilter parses a provider name. Unknown names mean no preference.
func ParseFilter(name string) Filter {
	switch f := Filter(strings.ToLower(strings.TrimSpace(name))); f {
	case FilterQuizAPI, FilterOpenTDB, FilterLocal:
		return f
	default:
		return FilterNone
	}
}

// String returns the filter name, "none" for no preference
func (f Filter) String() string {
	if f == FilterNone {
		return "none"
	}
	return string(f)
}

// candidateNames lists the sources a filter allows, in a stable order.
// Asking for QuizAPI without a token is a configuration error.
func candidateNames(filter Filter, hasToken bool) ([]string, error) {
	switch filter {
	case FilterQuizAPI:
		if !hasToken {
			return nil, sources.NewMissingAPITokenError(sources.SourceQuizAPI)
		}
		return []string{sources.SourceQuizAPI}, nil
	case FilterOpenTDB:
		return []string{sources.SourceOpenTDB}, nil
	case FilterLocal:
		return []string{sources.SourceLocal}, nil
	default:
		names := make([]string, 0, 3)
		if hasToken {
			names = append(names, sources.SourceQuizAPI)
		}
		return append(names, sources.SourceOpenTDB, sources.SourceLocal), nil
	}
}
