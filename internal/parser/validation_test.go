package parser

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/multierr"
)

func TestExtractionErrors(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantKind ErrorKind
		errMsg   string
	}{
		{
			name: "bad annotation parameter",
			code: `package test
// @binstruct byte_order=sideways
type Page struct {
	Header uint16
}`,
			wantKind: KindInvalidAnnotation,
			errMsg:   "byte_order must be 'little' or 'big'",
		},
		{
			name: "conflicting tag options",
			code: `package test
// @binstruct
type Page struct {
	N    uint8
	Body []byte ` + "`bin:\"size=4,len=N\"`" + `
}`,
			wantKind: KindConflictingOptions,
			errMsg:   "Page.Body",
		},
		{
			name: "embedded field",
			code: `package test
// @binstruct
type Page struct {
	Header
}`,
			wantKind: KindUnsupportedType,
			errMsg:   "embedded fields are not supported",
		},
		{
			name: "option on unexported field",
			code: `package test
// @binstruct
type Page struct {
	n uint8 ` + "`bin:\"length_of=Body\"`" + `
}`,
			wantKind: KindInvalidAnnotation,
			errMsg:   "unexported fields cannot carry bin options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSource("test.go", tt.code)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %v is not a *ConfigError", err)
			}
			if cfgErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", cfgErr.Kind, tt.wantKind)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.errMsg)
			}
			if !strings.HasPrefix(err.Error(), "test.go:") {
				t.Errorf("error = %q, want a file position prefix", err)
			}
		})
	}
}

func TestExtractionCollectsAllErrors(t *testing.T) {
	code := `package test
// @binstruct
type A struct {
	X uint8 ` + "`bin:\"unknown=1\"`" + `
	Y uint8 ` + "`bin:\"len=\"`" + `
}

// @binstruct enum tag_type=int8
type B struct {
	V *A ` + "`bin:\"tag=1\"`" + `
}`

	_, err := ParseSource("test.go", code)
	if got := len(multierr.Errors(err)); got != 3 {
		t.Errorf("got %d errors, want 3: %v", got, err)
	}
}

func TestParseSourceSyntaxError(t *testing.T) {
	_, err := ParseSource("broken.go", "package test\ntype {")
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("error = %v, want parse error", err)
	}
}
