// Package scanner classifies raw shader source into a directive stream.
//
// A directive line is any line whose first non-blank characters are the
// "//:" sentinel, followed immediately by a keyword and an optional
// argument running to end of line. Every other line, including ordinary
// comments, passes through as Text. The scanner does not interpret
// directive semantics; the raw condition string of an 'if' is handed to
// the condition evaluator untouched.
package scanner

import (
	"strings"
	"unicode"

	"github.com/vk/wgslpp/diag"
)

// sentinel marks a directive line.
const sentinel = "//:"

// Directive is one element of the scanned stream. The variant set is
// closed; the expansion engine dispatches over it with a type switch.
type Directive interface {
	// LineNo is the 1-based source line the directive appeared on.
	LineNo() int

	directive()
}

// Text is a line passed through verbatim (without its trailing newline).
type Text struct {
	Line    int
	Content string
}

// If opens a conditional block. Condition is the raw, untrimmed-of-meaning
// expression text after the keyword.
type If struct {
	Line      int
	Condition string
}

// Else switches the active branch of the nearest open If.
type Else struct {
	Line int
}

// End closes the nearest open If.
type End struct {
	Line int
}

// Const requests emission of a constant declaration bound to a global.
type Const struct {
	Line int
	Name string
}

// Include requests inline expansion of another file.
type Include struct {
	Line int
	Path string
}

func (d Text) LineNo() int    { return d.Line }
func (d If) LineNo() int      { return d.Line }
func (d Else) LineNo() int    { return d.Line }
func (d End) LineNo() int     { return d.Line }
func (d Const) LineNo() int   { return d.Line }
func (d Include) LineNo() int { return d.Line }

func (Text) directive()    {}
func (If) directive()      {}
func (Else) directive()    {}
func (End) directive()     {}
func (Const) directive()   {}
func (Include) directive() {}

// Scan walks src line by line and returns the ordered directive stream.
// path is the logical path of the file, used only for error locations.
// An unknown keyword after the sentinel is an error, never silent text.
func Scan(path, src string) ([]Directive, error) {
	lines := strings.Split(src, "\n")
	// A trailing newline yields one empty trailing element; it is the
	// line terminator, not an empty line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	directives := make([]Directive, 0, len(lines))
	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, sentinel) {
			directives = append(directives, Text{Line: lineNo, Content: line})
			continue
		}

		keyword, arg := splitDirective(trimmed[len(sentinel):])
		switch keyword {
		case "if":
			if arg == "" {
				return nil, diag.New(diag.Structural, path, lineNo, "'if' requires a condition")
			}
			directives = append(directives, If{Line: lineNo, Condition: arg})
		case "else":
			if arg != "" {
				return nil, diag.New(diag.Structural, path, lineNo, "'else' takes no argument")
			}
			directives = append(directives, Else{Line: lineNo})
		case "end":
			if arg != "" {
				return nil, diag.New(diag.Structural, path, lineNo, "'end' takes no argument")
			}
			directives = append(directives, End{Line: lineNo})
		case "const":
			if arg == "" {
				return nil, diag.New(diag.Structural, path, lineNo, "'const' requires a global name")
			}
			directives = append(directives, Const{Line: lineNo, Name: arg})
		case "include":
			if arg == "" {
				return nil, diag.New(diag.Structural, path, lineNo, "'include' requires a path")
			}
			directives = append(directives, Include{Line: lineNo, Path: arg})
		default:
			return nil, diag.New(diag.Structural, path, lineNo, "unknown directive keyword %q", keyword)
		}
	}
	return directives, nil
}

// splitDirective separates the keyword from its argument. The argument
// runs to end of line with surrounding whitespace trimmed.
func splitDirective(rest string) (keyword, arg string) {
	i := strings.IndexFunc(rest, unicode.IsSpace)
	if i < 0 {
		return rest, ""
	}
	return rest[:i], strings.TrimSpace(rest[i:])
}
