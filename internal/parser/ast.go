package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// ParseFile parses a Go source file and extracts structures with @binstruct
// annotations. Every malformed annotation or tag in the file is reported;
// the returned error aggregates them.
func ParseFile(filename string) (*File, error) {
	return ParseSource(filename, nil)
}

// ParseSource is ParseFile with the source given as src (string, []byte or
// io.Reader, as accepted by go/parser). A nil src reads filename.
func ParseSource(filename string, src any) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	x := &extractor{fset: fset}
	f := &File{
		Package: file.Name.Name,
		Path:    filename,
		Aliases: make(map[string]string),
	}
	x.extractTypes(file, f)
	if x.err != nil {
		return nil, x.err
	}
	return f, nil
}

type extractor struct {
	fset *token.FileSet
	err  error
}

func (x *extractor) pos(p token.Pos) string {
	position := x.fset.Position(p)
	return fmt.Sprintf("%s:%d", position.Filename, position.Line)
}

func (x *extractor) fail(err *ConfigError) {
	x.err = multierr.Append(x.err, err)
}

func (x *extractor) extractTypes(file *ast.File, out *File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)

			// Named scalars and arrays: type PageID uint64
			if _, isStruct := typeSpec.Type.(*ast.StructType); !isStruct {
				if t := typeToString(typeSpec.Type); t != "unknown" {
					out.Aliases[typeSpec.Name.Name] = t
				}
				continue
			}
			structType := typeSpec.Type.(*ast.StructType)

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			opts, found, err := extractAnnotation(doc)
			if !found {
				continue // No @binstruct, skip this type
			}
			name := typeSpec.Name.Name
			if err != nil {
				x.fail(ConfigErrorf(KindInvalidAnnotation, x.pos(typeSpec.Pos()), name, "", "%v", err))
				continue
			}

			out.Structs = append(out.Structs, &StructureDescriptor{
				Name:    name,
				Pos:     x.pos(typeSpec.Pos()),
				Options: *opts,
				Fields:  x.extractFields(name, structType),
			})
		}
	}
}

func extractAnnotation(doc *ast.CommentGroup) (*StructOptions, bool, error) {
	if doc == nil {
		return nil, false, nil
	}

	var lines []string
	for _, comment := range doc.List {
		lines = append(lines, CleanComment(comment.Text))
	}

	return FindAnnotation(lines)
}

func (x *extractor) extractFields(structName string, structType *ast.StructType) []FieldDescriptor {
	var fields []FieldDescriptor

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			x.fail(ConfigErrorf(KindUnsupportedType, x.pos(field.Pos()), structName, typeToString(field.Type),
				"embedded fields are not supported"))
			continue
		}

		var tagValue string
		hasTag := false
		if field.Tag != nil {
			raw, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				raw = strings.Trim(field.Tag.Value, "`")
			}
			tagValue, hasTag = reflect.StructTag(raw).Lookup("bin")
		}

		goType := typeToString(field.Type)
		for _, ident := range field.Names {
			if !ident.IsExported() {
				if hasTag && tagValue != "-" {
					x.fail(ConfigErrorf(KindInvalidAnnotation, x.pos(ident.Pos()), structName, ident.Name,
						"unexported fields cannot carry bin options"))
				}
				continue
			}

			opts, err := ParseTag(tagValue)
			if err != nil {
				x.fail(ConfigErrorf(KindConflictingOptions, x.pos(ident.Pos()), structName, ident.Name, "%v", err))
				continue
			}

			fields = append(fields, FieldDescriptor{
				Name:    ident.Name,
				GoType:  goType,
				Pos:     x.pos(ident.Pos()),
				Options: opts,
			})
		}
	}

	return fields
}

// typeToString converts AST type expression to string
// Only supports types with defined binary layout
func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		// Simple type: uint16, Header, etc.
		return t.Name

	case *ast.ArrayType:
		if t.Len == nil {
			// Slice: []byte, []Entry
			return "[]" + typeToString(t.Elt)
		}
		// Array: [8]byte
		return fmt.Sprintf("[%s]%s", exprToString(t.Len), typeToString(t.Elt))

	case *ast.StarExpr:
		// Pointer: only valid for enum variants
		return "*" + typeToString(t.X)

	case *ast.SelectorExpr:
		// Qualified: pkg.Type, valid once registered as an external type
		return exprToString(t.X) + "." + t.Sel.Name

	default:
		return "unknown"
	}
}

func exprToString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return e.Value
	case *ast.Ident:
		return e.Name
	default:
		return "?"
	}
}
