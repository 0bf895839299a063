// Package engine orchestrates preprocessing: it walks a file's directive
// stream, resolves conditionals against the global registry, substitutes
// constants, and recursively splices included files.
//
// An Expander is cheap and stateless across requests; all recursion state
// (the in-progress include set and the output buffer) lives in a context
// created per Expand call, so independent requests may run concurrently
// as long as the source table and globals are not mutated mid-flight.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/wgslpp/condition"
	"github.com/vk/wgslpp/diag"
	"github.com/vk/wgslpp/internal/ctxlog"
	"github.com/vk/wgslpp/scanner"
	"github.com/vk/wgslpp/value"
	"github.com/vk/wgslpp/workspace"
)

// SourceTable resolves logical paths to raw shader source. It must be
// fully populated before expansion begins; the engine performs no I/O.
type SourceTable interface {
	Lookup(path string) (src string, ok bool)
}

// Globals resolves global constant names. Implementations must be stable
// for the duration of one Expand call.
type Globals interface {
	Lookup(name string) (value.Value, bool)
}

// Expander expands shader source against a source table and a set of
// globals. Both collaborators are borrowed, never mutated.
type Expander struct {
	sources SourceTable
	globals Globals
}

// New creates an Expander over the given collaborators.
func New(sources SourceTable, globals Globals) *Expander {
	return &Expander{sources: sources, globals: globals}
}

// Expand preprocesses the shader at entry and returns the fully expanded
// text. Any failure aborts the whole request; no partial output is
// returned alongside an error.
func (x *Expander) Expand(ctx context.Context, entry string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Expansion request started.", "entry", entry)

	ec := &expansionContext{inProgress: make(map[string]struct{})}
	var out strings.Builder
	if err := x.expandFile(ctx, ec, entry, "", 0, &out); err != nil {
		logger.Debug("Expansion request failed.", "entry", entry, "error", err)
		return "", err
	}

	logger.Debug("Expansion request finished.", "entry", entry, "bytes", out.Len())
	return out.String(), nil
}

// expansionContext is the per-request recursion state. inProgress and
// chain track the same paths: the map answers membership, the slice
// reconstructs the full include chain for cycle errors.
type expansionContext struct {
	inProgress map[string]struct{}
	chain      []string
}

func (ec *expansionContext) enter(path string) {
	ec.inProgress[path] = struct{}{}
	ec.chain = append(ec.chain, path)
}

func (ec *expansionContext) leave(path string) {
	delete(ec.inProgress, path)
	ec.chain = ec.chain[:len(ec.chain)-1]
}

// frame tracks one open conditional block.
type frame struct {
	ifLine       int
	condTrue     bool
	elseSeen     bool
	parentActive bool
}

// active reports whether lines in the frame's current branch are emitted.
func (f frame) active() bool {
	if !f.parentActive {
		return false
	}
	if f.elseSeen {
		return !f.condTrue
	}
	return f.condTrue
}

// expandFile expands a single file into out. from and fromLine locate the
// include directive that requested it; both are zero-valued for the entry
// file.
func (x *Expander) expandFile(ctx context.Context, ec *expansionContext, path, from string, fromLine int, out *strings.Builder) error {
	if err := workspace.ValidatePath(path); err != nil {
		if from == "" {
			return diag.New(diag.Lookup, path, 0, "%s", err)
		}
		return diag.New(diag.Lookup, from, fromLine, "%s", err)
	}

	src, ok := x.sources.Lookup(path)
	if !ok {
		if from == "" {
			return diag.New(diag.Lookup, path, 0, "shader %q not found in workspace", path)
		}
		return diag.New(diag.Lookup, from, fromLine, "included file %q not found in workspace", path)
	}

	if _, busy := ec.inProgress[path]; busy {
		cycleErr := diag.New(diag.Graph, from, fromLine, "circular include of %q", path)
		cycleErr.Chain = append(append([]string{}, ec.chain...), path)
		return cycleErr
	}
	ec.enter(path)
	defer ec.leave(path)

	ctxlog.FromContext(ctx).Debug("Expanding file.", "path", path, "depth", len(ec.chain))

	directives, err := scanner.Scan(path, src)
	if err != nil {
		return err
	}

	var frames []frame
	active := func() bool {
		if len(frames) == 0 {
			return true
		}
		return frames[len(frames)-1].active()
	}

	for _, d := range directives {
		switch d := d.(type) {
		case scanner.Text:
			if active() {
				out.WriteString(d.Content)
				out.WriteByte('\n')
			}

		case scanner.If:
			// A block inside an inactive branch is forced inactive;
			// its condition is never evaluated, mirroring how
			// includes inside dead branches are never resolved.
			parentActive := active()
			condTrue := false
			if parentActive {
				expr, err := condition.Parse(d.Condition, path, d.Line)
				if err != nil {
					return err
				}
				condTrue, err = expr.Eval(x.globals)
				if err != nil {
					return err
				}
			}
			frames = append(frames, frame{ifLine: d.Line, condTrue: condTrue, parentActive: parentActive})

		case scanner.Else:
			if len(frames) == 0 {
				return diag.New(diag.Structural, path, d.Line, "'else' without a matching 'if'")
			}
			top := &frames[len(frames)-1]
			if top.elseSeen {
				return diag.New(diag.Structural, path, d.Line, "duplicate 'else' for 'if' on line %d", top.ifLine)
			}
			top.elseSeen = true

		case scanner.End:
			if len(frames) == 0 {
				return diag.New(diag.Structural, path, d.Line, "'end' without a matching 'if'")
			}
			frames = frames[:len(frames)-1]

		case scanner.Const:
			if !active() {
				continue
			}
			if err := x.emitConst(path, d, out); err != nil {
				return err
			}

		case scanner.Include:
			if !active() {
				continue
			}
			if err := x.expandFile(ctx, ec, d.Path, path, d.Line, out); err != nil {
				return err
			}
		}
	}

	if len(frames) > 0 {
		top := frames[len(frames)-1]
		return diag.New(diag.Structural, path, top.ifLine, "unterminated conditional block")
	}
	return nil
}

// emitConst appends a WGSL constant declaration bound to a global.
func (x *Expander) emitConst(path string, d scanner.Const, out *strings.Builder) error {
	v, ok := x.globals.Lookup(d.Name)
	if !ok {
		return diag.New(diag.Lookup, path, d.Line, "undefined constant %q", d.Name)
	}
	lit, ok := v.WGSLLiteral()
	if !ok {
		return diag.New(diag.Evaluation, path, d.Line, "boolean global %q cannot be declared as a constant", d.Name)
	}
	fmt.Fprintf(out, "const %s = %s;\n", d.Name, lit)
	return nil
}
