package analyzer

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"

	binparser "github.com/alexhholmes/binstruct/internal/parser"
)

// checkPredicate type-checks a skip_if expression the way the generated
// code will see it: every referenced field is in scope with its declared
// type, and the expression is used as an if condition. Operators the
// operand types do not support, constants that overflow the field they are
// compared with and non-boolean results are reported as invalid_predicate.
func (r *resolver) checkPredicate(plan *LayoutPlan, fd *binparser.FieldDescriptor, pred *binparser.Predicate, refs []int) error {
	src := predicateSource(plan, pred, refs)

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "predicate.go", src, 0)
	if err != nil {
		return r.errf(binparser.KindInvalidPredicate, fd, "skip_if=%s: %v", pred.Source, err)
	}

	conf := types.Config{}
	if _, err := conf.Check("predicate", fset, []*ast.File{file}, nil); err != nil {
		msg := err.Error()
		var terr types.Error
		if errors.As(err, &terr) {
			msg = terr.Msg
		}
		return r.errf(binparser.KindInvalidPredicate, fd, "skip_if=%s: %s", pred.Source, msg)
	}
	return nil
}

// predicateSource renders a file declaring the named scalar types the
// predicate reads and a function whose parameters are the referenced fields.
func predicateSource(plan *LayoutPlan, pred *binparser.Predicate, refs []int) string {
	var b strings.Builder
	b.WriteString("package predicate\n\n")

	var params []string
	declared := map[string]bool{}
	for _, j := range refs {
		f := &plan.Fields[j]
		typ := f.GoType
		switch {
		case strings.Contains(typ, "."):
			typ = f.Type
		case types.Universe.Lookup(typ) == nil && !declared[typ]:
			declared[typ] = true
			fmt.Fprintf(&b, "type %s %s\n\n", typ, f.Type)
		}
		params = append(params, f.Name+" "+typ)
	}

	fmt.Fprintf(&b, "func _(%s) {\n", strings.Join(params, ", "))
	fmt.Fprintf(&b, "\tif %s {\n\t}\n}\n", pred.Render(func(name string) string { return name }))
	return b.String()
}
