package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexhholmes/binstruct/internal/parser"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".binstruct.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "little", cfg.DefaultByteOrder)
	assert.Equal(t, parser.LittleEndian, cfg.ByteOrder())
	assert.Equal(t, "_binstruct.go", cfg.OutputSuffix)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Header)
}

func TestLoadFromWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
default_byte_order: big
output_suffix: _wire.go
header: |
  // Copyright 2026 The Authors.
log_level: debug
`)
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, parser.BigEndian, cfg.ByteOrder())
	assert.Equal(t, "_wire.go", cfg.OutputSuffix)
	assert.Equal(t, "// Copyright 2026 The Authors.\n", cfg.Header)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExplicitPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "default_byte_order: big\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, parser.BigEndian, cfg.ByteOrder())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadExternalTypes(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
external_types:
  - {name: Checksum, size: 4}
  - {name: ext.Record, size: -1}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []ExternalType{
		{Name: "Checksum", Size: 4},
		{Name: "ext.Record", Size: -1},
	}, cfg.ExternalTypes)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BINSTRUCT_DEFAULT_BYTE_ORDER", "big")
	t.Setenv("BINSTRUCT_OUTPUT_SUFFIX", "_gen.go")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, parser.BigEndian, cfg.ByteOrder())
	assert.Equal(t, "_gen.go", cfg.OutputSuffix)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"byte order", "default_byte_order: middle\n"},
		{"suffix", "output_suffix: .txt\n"},
		{"suffix path", "output_suffix: gen/x.go\n"},
		{"log level", "log_level: loud\n"},
		{"header", "header: not a comment\n"},
		{"external type name", "external_types:\n  - {name: \"a.b.C\", size: 4}\n"},
		{"external type size", "external_types:\n  - {name: Checksum, size: -2}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
