package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
)

// Predicate is a skip_if condition. It is a Go expression restricted to
// field names, integer/char literals, true/false and the arithmetic,
// bitwise, comparison and logical operators. The field is absent from the
// wire when the predicate evaluates to true.
type Predicate struct {
	Source string
	Expr   ast.Expr
}

// ParsePredicate parses and validates a skip_if expression.
//
// Examples:
//
//	"Flags&0x01 == 0"
//	"Version < 2"
//	"!HasTrailer"
//	"Kind != 3 && Len == 0"
func ParsePredicate(src string) (*Predicate, error) {
	if src == "" {
		return nil, fmt.Errorf("skip_if requires a predicate")
	}
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("invalid skip_if predicate %q: %w", src, err)
	}
	if err := checkPredicate(expr); err != nil {
		return nil, fmt.Errorf("invalid skip_if predicate %q: %w", src, err)
	}
	return &Predicate{Source: src, Expr: expr}, nil
}

func checkPredicate(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Ident:
		return nil
	case *ast.BasicLit:
		if e.Kind != token.INT && e.Kind != token.CHAR {
			return fmt.Errorf("unsupported literal %s", e.Value)
		}
		return nil
	case *ast.ParenExpr:
		return checkPredicate(e.X)
	case *ast.UnaryExpr:
		switch e.Op {
		case token.NOT, token.SUB, token.XOR:
			return checkPredicate(e.X)
		}
		return fmt.Errorf("unsupported operator %s", e.Op)
	case *ast.BinaryExpr:
		switch e.Op {
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ,
			token.LAND, token.LOR,
			token.AND, token.OR, token.XOR, token.AND_NOT, token.SHL, token.SHR,
			token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		default:
			return fmt.Errorf("unsupported operator %s", e.Op)
		}
		if err := checkPredicate(e.X); err != nil {
			return err
		}
		return checkPredicate(e.Y)
	default:
		return fmt.Errorf("unsupported expression %T", expr)
	}
}

// Refs returns the field names the predicate refers to, in order of first
// appearance.
func (p *Predicate) Refs() []string {
	var refs []string
	seen := map[string]bool{}
	ast.Inspect(p.Expr, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok || id.Name == "true" || id.Name == "false" || seen[id.Name] {
			return true
		}
		seen[id.Name] = true
		refs = append(refs, id.Name)
		return true
	})
	return refs
}

// Render prints the predicate with every field reference replaced by
// subst(name).
func (p *Predicate) Render(subst func(name string) string) string {
	return render(p.Expr, subst)
}

func render(expr ast.Expr, subst func(string) string) string {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == "true" || e.Name == "false" {
			return e.Name
		}
		return subst(e.Name)
	case *ast.BasicLit:
		return e.Value
	case *ast.ParenExpr:
		return "(" + render(e.X, subst) + ")"
	case *ast.UnaryExpr:
		x := render(e.X, subst)
		if _, nested := e.X.(*ast.UnaryExpr); nested {
			// "--x" would scan as a decrement
			x = "(" + x + ")"
		}
		return e.Op.String() + x
	case *ast.BinaryExpr:
		return render(e.X, subst) + " " + e.Op.String() + " " + render(e.Y, subst)
	default:
		return "?"
	}
}
