package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const frameSource = `package proto

// @binstruct byte_order=big
type Frame struct {
	Count uint8  ` + "`bin:\"length_of=Data\"`" + `
	Data  []byte ` + "`bin:\"len=Count\"`" + `
	CRC   uint32
}
`

// run executes the CLI in dir and returns stdout and stderr.
func run(t *testing.T, dir string, stdin []byte, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(bytes.NewReader(stdin))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "binstruct", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"generate", "plan", "dump"}, names)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", frameSource)

	stdout, _, err := run(t, dir, nil, "generate", "frame.go")
	require.NoError(t, err)
	assert.Contains(t, stdout, "frame_binstruct.go (Frame)")

	code, err := os.ReadFile(filepath.Join(dir, "frame_binstruct.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "func (p *Frame) EncodeBinary(e *wire.Encoder) error {")
	assert.Contains(t, string(code), "func (p *Frame) DecodeBinary(d *wire.Decoder) error {")
	assert.Contains(t, string(code), "binary.BigEndian")
}

func TestGenerateStdoutDecodeOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", frameSource)

	stdout, _, err := run(t, dir, nil, "generate", "--decode", "-o", "-", "frame.go")
	require.NoError(t, err)
	assert.Contains(t, stdout, "DecodeBinary")
	assert.NotContains(t, stdout, "EncodeBinary")

	_, err = os.Stat(filepath.Join(dir, "frame_binstruct.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", strings.Replace(frameSource, " byte_order=big", "", 1))
	writeFile(t, dir, ".binstruct.yaml", `
default_byte_order: big
output_suffix: _wire.go
header: "// Copyright 2026 The Authors."
`)

	_, _, err := run(t, dir, nil, "generate", "frame.go")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "frame_wire.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(code), "// Copyright 2026 The Authors."))
	assert.Contains(t, string(code), "binary.BigEndian")
}

func TestGenerateConfigurationError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.go", frameSource)
	writeFile(t, dir, "bad.go", `package proto

// @binstruct
type Bad struct {
	Data []byte
	Rest []byte `+"`bin:\"len=Nope\"`"+`
}
`)

	stdout, stderr, err := run(t, dir, nil, "generate", "good.go", "bad.go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
	assert.Contains(t, stderr, "missing_length")
	assert.Contains(t, stdout, "good_binstruct.go")

	_, err = os.Stat(filepath.Join(dir, "bad_binstruct.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestGenerateRejectsOutputWithManyInputs(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, dir, nil, "generate", "-o", "x.go", "a.go", "b.go")
	assert.Error(t, err)
}

func TestGenerateNoStructures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain.go", "package proto\n\ntype Plain struct{ A int }\n")

	_, stderr, err := run(t, dir, nil, "generate", "plain.go")
	require.NoError(t, err)
	assert.Contains(t, stderr, "no @binstruct structures in plain.go")
}

func TestGenerateSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "proto.yaml", `
package: proto
structs:
  - name: Frame
    fields:
      - {name: Count, type: uint8, length_of: Data}
      - {name: Data, type: "[]byte", len: Count}
`)

	_, _, err := run(t, dir, nil, "generate", "proto.yaml")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "proto_binstruct.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "type Frame struct {")
}

func TestGenerateNestsSiblingStructure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "header.go", `package proto

// @binstruct
type Header struct {
	Magic   uint32
	Version uint16
}
`)
	writeFile(t, dir, "record.go", `package proto

// @binstruct
type Record struct {
	Head Header
	Body [4]byte
}
`)
	// other packages and generated files in the directory are not consulted
	writeFile(t, dir, "other.go", "package other\n\n// @binstruct\ntype Header struct{ A uint8 }\n")
	writeFile(t, dir, "stale_binstruct.go", "package proto\n\n// @binstruct\ntype Header struct{ A uint8 }\n")

	_, _, err := run(t, dir, nil, "generate", "record.go")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "record_binstruct.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "p.Head.EncodeBinary(e)")
	assert.NotContains(t, string(code), "func (p *Header)")

	stdout, _, err := run(t, dir, nil, "plan", "--format", "yaml", "record.go")
	require.NoError(t, err)
	assert.Contains(t, stdout, "size: 10")
}

func TestGenerateExternalTypes(t *testing.T) {
	dir := t.TempDir()
	source := `package proto

// @binstruct
type Sealed struct {
	Seq uint16
	Sum Checksum
}
`
	writeFile(t, dir, "sealed.go", source)

	_, stderr, err := run(t, dir, nil, "generate", "sealed.go")
	require.Error(t, err)
	assert.Contains(t, stderr, "Checksum")

	writeFile(t, dir, ".binstruct.yaml", `
external_types:
  - {name: Checksum, size: 4}
`)
	_, _, err = run(t, dir, nil, "generate", "sealed.go")
	require.NoError(t, err)

	code, err := os.ReadFile(filepath.Join(dir, "sealed_binstruct.go"))
	require.NoError(t, err)
	assert.Contains(t, string(code), "p.Sum.EncodeBinary(e)")
}

func TestPlanTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", frameSource)

	stdout, _, err := run(t, dir, nil, "plan", "frame.go")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Frame (struct, byte_order=big, size=dynamic)")
	assert.Contains(t, stdout, "length_of=Data")
	assert.Contains(t, stdout, "length-referenced")
}

func TestPlanYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", frameSource)

	stdout, _, err := run(t, dir, nil, "plan", "--format", "yaml", "frame.go")
	require.NoError(t, err)
	assert.Contains(t, stdout, "- name: Frame")
	assert.Contains(t, stdout, "strategy: length-referenced")
	assert.Contains(t, stdout, "size: -1")
}

func TestPlanDebug(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", frameSource)

	stdout, _, err := run(t, dir, nil, "plan", "--debug", "frame.go")
	require.NoError(t, err)
	assert.Contains(t, stdout, "LayoutPlan")
	assert.Contains(t, stdout, `"Frame"`)
}

func TestPlanUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "frame.go", frameSource)

	_, _, err := run(t, dir, nil, "plan", "--format", "xml", "frame.go")
	assert.Error(t, err)
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	stdout, _, err := run(t, dir, []byte{0x03, 0xAA, 0xBB, 0xCC}, "dump", "--compact")
	require.NoError(t, err)
	assert.Equal(t, "03 AA BB CC\n", stdout)

	writeFile(t, dir, "frame.bin", "\x03\xaa\xbb\xcc")
	stdout, _, err = run(t, dir, nil, "dump", "frame.bin")
	require.NoError(t, err)
	assert.Contains(t, stdout, "00000000  03 aa bb cc")
}
