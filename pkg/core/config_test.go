package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ZC_ROOT", root)

	cfg, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, "clang", cfg.CCompiler)
	assert.Equal(t, "clang++", cfg.CPPCompiler)
	assert.Equal(t, "c17", cfg.CStd)
	assert.Equal(t, "c++20", cfg.CPPStd)
	assert.Equal(t, []string{"-Wall", "-Wextra"}, cfg.Flags)
	assert.Equal(t, MatchSubstring, cfg.IncludeMatch)
	assert.Equal(t, filepath.Join(root, "include"), cfg.IncludeDir())
	assert.Equal(t, filepath.Join(root, "lib"), cfg.LibDir())
	assert.Equal(t, filepath.Join(root, "registry.json"), cfg.IndexPath())
}

func TestLoadSettingsFromYAMLAndEnv(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ZC_ROOT", root)
	t.Setenv("ZC_CPP_COMPILER", "g++")

	yml := `c_compiler: gcc
c_std: c11
flags: ["-O2"]
include_match: stem
std_packages:
  - name: zlib
    headers: [zlib.h]
    flags: -lz
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(yml), 0644))

	cfg, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "gcc", cfg.Compiler(false))
	assert.Equal(t, "g++", cfg.Compiler(true))
	assert.Equal(t, "c11", cfg.Std(false))
	assert.Equal(t, "c++20", cfg.Std(true))
	assert.Equal(t, []string{"-O2"}, cfg.Flags)
	assert.Equal(t, MatchStem, cfg.IncludeMatch)
	require.Len(t, cfg.StdPackages, 1)
	assert.Equal(t, "-lz", cfg.StdPackages[0].Flags)
}

func TestLoadSettingsRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ZC_ROOT", root)
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("flags: [unclosed"), 0644))

	_, err := LoadSettings("")
	assert.ErrorIs(t, err, ErrConfigParsing)
}

func TestLoadSettingsRejectsUnknownMatchMode(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ZC_ROOT", root)
	t.Setenv("ZC_INCLUDE_MATCH", "fuzzy")

	_, err := LoadSettings("")
	assert.ErrorIs(t, err, ErrConfigParsing)
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	root := t.TempDir()
	t.Setenv("ZC_ROOT", root)

	cfg := DefaultSettings()
	cfg.Root = root
	cfg.CCompiler = "tcc"
	require.NoError(t, SaveSettings(cfg, ""))

	loaded, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "tcc", loaded.CCompiler)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitOK},
		{&CompilationError{Source: "a.c", Err: errors.New("exit status 1")}, ExitCompilation},
		{&Error{Op: "removing", Package: "foo", Err: ErrPackageNotFound}, ExitNotFound},
		{ErrConfigNotFound, ExitConfigNotFound},
		{ErrConfigReading, ExitConfigReading},
		{ErrConfigParsing, ExitConfigParsing},
		{ErrConfigWriting, ExitConfigWriting},
		{ErrOperationsAborted, ExitOperationsAbort},
		{ErrBadCommand, ExitBadCommand},
		{errors.New("boom"), ExitInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err), "error %v", tt.err)
	}
}

func TestPackageApplyDefaultsAndClone(t *testing.T) {
	p := Package{Name: "foo", Headers: []string{"foo.h"}}
	p.ApplyDefaults()

	assert.Equal(t, DefaultVersion, p.Version)
	assert.Equal(t, DefaultAuthor, p.Author)
	assert.Equal(t, "-lfoo", p.Flags)

	c := p.Clone()
	c.Headers[0] = "bar.h"
	assert.Equal(t, "foo.h", p.Headers[0])
}
