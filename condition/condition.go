// Package condition parses and evaluates the boolean expression attached
// to an 'if' directive.
//
// Parsing is delegated to HCL's native expression syntax, seeded with the
// shader's logical path and directive line so every AST node carries a
// real source location. Evaluation is our own exhaustive walk over the
// hclsyntax AST: the preprocessor's type rules are stricter than HCL's
// (comparing a numeric against a boolean is an error, not a lenient
// false), so expressions are never evaluated through hcl.EvalContext.
package condition

import (
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/wgslpp/diag"
	"github.com/vk/wgslpp/value"
)

// Globals resolves identifier references during evaluation. The global
// registry snapshot satisfies this.
type Globals interface {
	Lookup(name string) (value.Value, bool)
}

// Expr is a parsed condition, ready for repeated evaluation.
type Expr struct {
	node hclsyntax.Expression
	path string
}

// Parse parses raw condition text located at path:line. Malformed syntax
// is reported as an Evaluation error at that location.
func Parse(raw, path string, line int) (*Expr, error) {
	node, diags := hclsyntax.ParseExpression([]byte(raw), path, hcl.Pos{Line: line, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return nil, diag.New(diag.Evaluation, path, line, "malformed condition: %s", diags.Error())
	}
	return &Expr{node: node, path: path}, nil
}

// Eval evaluates the condition against the given globals. The result must
// be a boolean; a numeric result is an Evaluation error.
func (e *Expr) Eval(globals Globals) (bool, error) {
	v, err := e.eval(e.node, globals)
	if err != nil {
		return false, err
	}
	if v.Kind() != value.KindBool {
		return false, e.errAt(e.node, diag.Evaluation, "condition evaluates to %s, not boolean", v.Kind())
	}
	return v.BoolVal(), nil
}

func (e *Expr) eval(node hclsyntax.Expression, globals Globals) (value.Value, error) {
	switch n := node.(type) {
	case *hclsyntax.LiteralValueExpr:
		v, err := value.FromCty(n.Val)
		if err != nil {
			return value.Value{}, e.errAt(n, diag.Evaluation, "%s", err)
		}
		return v, nil

	case *hclsyntax.ScopeTraversalExpr:
		if len(n.Traversal) != 1 {
			name := string(hclwrite.TokensForTraversal(n.Traversal).Bytes())
			return value.Value{}, e.errAt(n, diag.Evaluation, "only plain identifiers may appear in conditions, got %q", name)
		}
		name := n.Traversal.RootName()
		v, ok := globals.Lookup(name)
		if !ok {
			return value.Value{}, e.errAt(n, diag.Lookup, "undefined constant %q", name)
		}
		return v, nil

	case *hclsyntax.ParenthesesExpr:
		return e.eval(n.Expression, globals)

	case *hclsyntax.UnaryOpExpr:
		return e.evalUnary(n, globals)

	case *hclsyntax.BinaryOpExpr:
		return e.evalBinary(n, globals)

	default:
		return value.Value{}, e.errAt(node, diag.Evaluation, "unsupported syntax in condition")
	}
}

func (e *Expr) evalUnary(n *hclsyntax.UnaryOpExpr, globals Globals) (value.Value, error) {
	operand, err := e.eval(n.Val, globals)
	if err != nil {
		return value.Value{}, err
	}
	switch n.Op {
	case hclsyntax.OpLogicalNot:
		if operand.Kind() != value.KindBool {
			return value.Value{}, e.errAt(n, diag.Evaluation, "operator ! requires a boolean, got %s", operand.Kind())
		}
		return value.Bool(!operand.BoolVal()), nil
	case hclsyntax.OpNegate:
		switch operand.Kind() {
		case value.KindInt:
			return value.Int(-operand.IntVal()), nil
		case value.KindFloat:
			return value.Float(-operand.FloatVal()), nil
		default:
			return value.Value{}, e.errAt(n, diag.Evaluation, "operator - requires a numeric, got %s", operand.Kind())
		}
	default:
		return value.Value{}, e.errAt(n, diag.Evaluation, "unsupported unary operator")
	}
}

func (e *Expr) evalBinary(n *hclsyntax.BinaryOpExpr, globals Globals) (value.Value, error) {
	// Logical operators short-circuit; the right side of a decided
	// && or || is never evaluated.
	switch n.Op {
	case hclsyntax.OpLogicalAnd, hclsyntax.OpLogicalOr:
		return e.evalLogical(n, globals)
	}

	left, err := e.eval(n.LHS, globals)
	if err != nil {
		return value.Value{}, err
	}
	right, err := e.eval(n.RHS, globals)
	if err != nil {
		return value.Value{}, err
	}

	switch n.Op {
	case hclsyntax.OpEqual, hclsyntax.OpNotEqual:
		eq, err := e.equals(n, left, right)
		if err != nil {
			return value.Value{}, err
		}
		if n.Op == hclsyntax.OpNotEqual {
			eq = !eq
		}
		return value.Bool(eq), nil

	case hclsyntax.OpLessThan, hclsyntax.OpLessThanOrEqual, hclsyntax.OpGreaterThan, hclsyntax.OpGreaterThanOrEqual:
		return e.compare(n, left, right)

	case hclsyntax.OpAdd, hclsyntax.OpSubtract, hclsyntax.OpMultiply, hclsyntax.OpDivide, hclsyntax.OpModulo:
		return e.arithmetic(n, left, right)

	default:
		return value.Value{}, e.errAt(n, diag.Evaluation, "unsupported operator in condition")
	}
}

func (e *Expr) evalLogical(n *hclsyntax.BinaryOpExpr, globals Globals) (value.Value, error) {
	left, err := e.eval(n.LHS, globals)
	if err != nil {
		return value.Value{}, err
	}
	if left.Kind() != value.KindBool {
		return value.Value{}, e.errAt(n, diag.Evaluation, "logical operator requires booleans, got %s", left.Kind())
	}
	if n.Op == hclsyntax.OpLogicalAnd && !left.BoolVal() {
		return value.Bool(false), nil
	}
	if n.Op == hclsyntax.OpLogicalOr && left.BoolVal() {
		return value.Bool(true), nil
	}
	right, err := e.eval(n.RHS, globals)
	if err != nil {
		return value.Value{}, err
	}
	if right.Kind() != value.KindBool {
		return value.Value{}, e.errAt(n, diag.Evaluation, "logical operator requires booleans, got %s", right.Kind())
	}
	return value.Bool(right.BoolVal()), nil
}

// equals implements == over compatible operands. Mixed integer/float is a
// numeric comparison; numeric against boolean is a type mismatch.
func (e *Expr) equals(n *hclsyntax.BinaryOpExpr, left, right value.Value) (bool, error) {
	switch {
	case left.IsNumeric() && right.IsNumeric():
		return left.AsFloat() == right.AsFloat(), nil
	case left.Kind() == value.KindBool && right.Kind() == value.KindBool:
		return left.BoolVal() == right.BoolVal(), nil
	default:
		return false, e.errAt(n, diag.Evaluation, "cannot compare %s against %s", left.Kind(), right.Kind())
	}
}

// compare implements the ordering operators, which are numeric-only.
func (e *Expr) compare(n *hclsyntax.BinaryOpExpr, left, right value.Value) (value.Value, error) {
	if !left.IsNumeric() || !right.IsNumeric() {
		return value.Value{}, e.errAt(n, diag.Evaluation, "ordering comparison requires numerics, got %s and %s", left.Kind(), right.Kind())
	}
	l, r := left.AsFloat(), right.AsFloat()
	switch n.Op {
	case hclsyntax.OpLessThan:
		return value.Bool(l < r), nil
	case hclsyntax.OpLessThanOrEqual:
		return value.Bool(l <= r), nil
	case hclsyntax.OpGreaterThan:
		return value.Bool(l > r), nil
	default:
		return value.Bool(l >= r), nil
	}
}

// arithmetic implements + - * / % over numerics. Two integers stay
// integer; any float operand widens the result to float.
func (e *Expr) arithmetic(n *hclsyntax.BinaryOpExpr, left, right value.Value) (value.Value, error) {
	if !left.IsNumeric() || !right.IsNumeric() {
		return value.Value{}, e.errAt(n, diag.Evaluation, "arithmetic requires numerics, got %s and %s", left.Kind(), right.Kind())
	}

	if left.Kind() == value.KindInt && right.Kind() == value.KindInt {
		l, r := left.IntVal(), right.IntVal()
		switch n.Op {
		case hclsyntax.OpAdd:
			return value.Int(l + r), nil
		case hclsyntax.OpSubtract:
			return value.Int(l - r), nil
		case hclsyntax.OpMultiply:
			return value.Int(l * r), nil
		case hclsyntax.OpDivide:
			if r == 0 {
				return value.Value{}, e.errAt(n, diag.Evaluation, "integer division by zero")
			}
			return value.Int(l / r), nil
		default:
			if r == 0 {
				return value.Value{}, e.errAt(n, diag.Evaluation, "integer division by zero")
			}
			return value.Int(l % r), nil
		}
	}

	l, r := left.AsFloat(), right.AsFloat()
	switch n.Op {
	case hclsyntax.OpAdd:
		return value.Float(l + r), nil
	case hclsyntax.OpSubtract:
		return value.Float(l - r), nil
	case hclsyntax.OpMultiply:
		return value.Float(l * r), nil
	case hclsyntax.OpDivide:
		return value.Float(l / r), nil
	default:
		return value.Float(math.Mod(l, r)), nil
	}
}

// errAt builds an error located at the given AST node. Node ranges carry
// the real shader line because parsing is seeded with the directive's
// position.
func (e *Expr) errAt(node hclsyntax.Expression, kind diag.Kind, format string, args ...any) error {
	return diag.New(kind, e.path, node.Range().Start.Line, format, args...)
}
