package codegen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const wirePath = "github.com/alexhholmes/binstruct/wire"

// sourceImporter type-checks the wire package from this repository and
// leaves everything else to the standard library source importer.
type sourceImporter struct {
	fset *token.FileSet
	std  types.Importer
	wire *types.Package
}

func (imp *sourceImporter) Import(path string) (*types.Package, error) {
	if path != wirePath {
		return imp.std.Import(path)
	}
	if imp.wire != nil {
		return imp.wire, nil
	}

	dir := filepath.Join("..", "..", "wire")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []*ast.File
	for _, e := range entries {
		name := e.Name()
		if filepath.Ext(name) != ".go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(imp.fset, filepath.Join(dir, name), nil, 0)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	conf := types.Config{Importer: imp.std}
	pkg, err := conf.Check(wirePath, imp.fset, files, nil)
	if err != nil {
		return nil, err
	}
	imp.wire = pkg
	return pkg, nil
}

var (
	importerOnce sync.Once
	imp          *sourceImporter
)

// typeCheck fails the test unless the sources compile together as one
// package. Each source is a file name followed by its content.
func typeCheck(t *testing.T, sources ...string) {
	t.Helper()
	require.Zero(t, len(sources)%2, "sources are name, content pairs")

	importerOnce.Do(func() {
		fset := token.NewFileSet()
		imp = &sourceImporter{fset: fset, std: importer.ForCompiler(fset, "source", nil)}
	})

	var files []*ast.File
	for i := 0; i < len(sources); i += 2 {
		f, err := parser.ParseFile(imp.fset, sources[i], sources[i+1], 0)
		require.NoError(t, err, "%s:\n%s", sources[i], sources[i+1])
		files = append(files, f)
	}

	conf := types.Config{Importer: imp}
	_, err := conf.Check(files[0].Name.Name, imp.fset, files, nil)
	require.NoError(t, err, "%s", strings.Join(sources[1:], "\n----\n"))
}
