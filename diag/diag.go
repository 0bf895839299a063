// Package diag defines the structured error values produced by the
// preprocessor. Every failure carries the logical path and line it
// originated from, plus a kind that callers can branch on.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a preprocessing failure.
type Kind int

const (
	// Structural covers malformed directive syntax and unbalanced
	// conditional blocks: unknown keywords, 'else' or 'end' without a
	// matching 'if', duplicate 'else', unterminated blocks.
	Structural Kind = iota

	// Lookup covers failed resolutions: an undefined constant referenced
	// by a directive or condition, or a missing source file.
	Lookup

	// Evaluation covers condition failures: malformed condition syntax,
	// type mismatches, unsupported constructs.
	Evaluation

	// Graph covers circular include chains.
	Graph
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Lookup:
		return "lookup"
	case Evaluation:
		return "evaluation"
	case Graph:
		return "graph"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single error type surfaced by the preprocessor. Path and
// Line locate the directive that triggered the failure; Line is zero when
// no single line applies. Chain is populated only for Graph errors and
// lists the include chain, ending with the repeated path.
type Error struct {
	Kind    Kind
	Path    string
	Line    int
	Summary string
	Chain   []string
}

// New builds an Error for the given location.
func New(kind Kind, path string, line int, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Path:    path,
		Line:    line,
		Summary: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Summary)
	if len(e.Chain) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Chain, " -> "))
	}
	return b.String()
}

// AsError unwraps err into a *Error if one is present anywhere in its chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsKind reports whether err wraps a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	de, ok := AsError(err)
	return ok && de.Kind == kind
}
