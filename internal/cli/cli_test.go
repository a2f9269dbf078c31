package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arc-language/zc/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd, a := newRootCommand()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := run(cmd, a)
	return out.String(), errOut.String(), err
}

type workspace struct {
	root string
	src  string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	w := &workspace{root: filepath.Join(dir, "zc"), src: filepath.Join(dir, "src")}
	require.NoError(t, os.MkdirAll(w.src, 0755))

	_, _, err := execute(t, "", "--root", w.root, "setup")
	require.NoError(t, err)
	return w
}

func (w *workspace) write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(w.src, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (w *workspace) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return execute(t, stdin, append([]string{"--root", w.root}, args...)...)
}

func TestSetup(t *testing.T) {
	root := filepath.Join(t.TempDir(), "zc")

	out, _, err := execute(t, "", "--root", root, "setup")
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+filepath.Join(root, core.IndexFileName))
	assert.FileExists(t, filepath.Join(root, core.IndexFileName))
	assert.FileExists(t, filepath.Join(root, core.ConfigFileName))
	assert.DirExists(t, filepath.Join(root, "include"))
	assert.DirExists(t, filepath.Join(root, "lib"))

	out, _, err = execute(t, "", "--root", root, "setup")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestCommandsNeedSetup(t *testing.T) {
	_, _, err := execute(t, "", "--root", t.TempDir(), "lib", "list")
	require.Error(t, err)
	assert.Equal(t, core.ExitConfigNotFound, core.ExitCode(err))
	assert.Contains(t, err.Error(), "zc setup")
}

func TestLibLifecycle(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "", "lib", "list")
	require.NoError(t, err)
	assert.Equal(t, "No libraries installed\n", out)

	header := w.write(t, "vec.h", "struct vec { float x, y; };\n")
	out, _, err = w.run(t, "", "lib", "create", "vec", header, "--version", "1.0.0", "--author", "me")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed vec 1.0.0")
	assert.FileExists(t, filepath.Join(w.root, "include", "vec", "vec.h"))

	out, _, err = w.run(t, "", "lib", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Package name")
	assert.Contains(t, out, "vec")
	assert.Contains(t, out, "-lvec")

	out, _, err = w.run(t, "", "lib", "info", "vec")
	require.NoError(t, err)
	assert.Contains(t, out, "Author: me")
	assert.Contains(t, out, filepath.Join(w.root, "include", "vec", "vec.h"))

	w.write(t, "app/main.c", "#include <vec.h>\n#include <math.h>\n")
	out, _, err = w.run(t, "", "deps", filepath.Join(w.src, "app"))
	require.NoError(t, err)
	assert.Equal(t, "-lvec -lm\n", out)

	out, _, err = w.run(t, "", "deps", "--per-file", filepath.Join(w.src, "app"))
	require.NoError(t, err)
	assert.Equal(t, "main.c: -lvec -lm\n", out)

	out, _, err = w.run(t, "", "flags", filepath.Join(w.src, "app"))
	require.NoError(t, err)
	assert.Equal(t, "-I"+filepath.Join(w.root, "include")+" -L"+filepath.Join(w.root, "lib")+" -lvec -lm\n", out)

	out, errOut, err := w.run(t, "", "lib", "remove", "vec")
	require.NoError(t, err)
	assert.Equal(t, "Removed vec\n", out)
	assert.Empty(t, errOut)
	assert.NoDirExists(t, filepath.Join(w.root, "include", "vec"))
}

func TestLibCreatePromptsBeforeOverwrite(t *testing.T) {
	w := newWorkspace(t)
	header := w.write(t, "dup.h", "")

	_, _, err := w.run(t, "", "lib", "create", "dup", header)
	require.NoError(t, err)

	out, errOut, err := w.run(t, "n\n", "lib", "create", "dup", header, "--version", "2.0.0")
	require.Error(t, err)
	assert.Equal(t, core.ExitOperationsAbort, core.ExitCode(err))
	assert.Contains(t, errOut, "Overwrite")
	assert.Contains(t, out, "Nothing was changed.")

	_, _, err = w.run(t, "y\n", "lib", "create", "dup", header, "--version", "2.0.0")
	require.NoError(t, err)

	_, _, err = w.run(t, "", "lib", "create", "dup", header, "--version", "3.0.0", "--force")
	require.NoError(t, err)

	out, _, err = w.run(t, "", "lib", "info", "dup")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: 3.0.0")
}

func TestLibCreateRejectsBadInput(t *testing.T) {
	w := newWorkspace(t)
	header := w.write(t, "x.h", "")

	_, _, err := w.run(t, "", "lib", "create", "x", header, "--version", "not-a-version")
	assert.ErrorIs(t, err, core.ErrBadCommand)

	_, errOut, err := w.run(t, "", "lib", "create", "x", w.write(t, "notes.txt", ""))
	assert.ErrorIs(t, err, core.ErrBadCommand)
	assert.Contains(t, errOut, "ignoring")

	_, _, err = w.run(t, "", "lib", "create", "x")
	assert.ErrorIs(t, err, core.ErrBadCommand)
	assert.Equal(t, core.ExitBadCommand, core.ExitCode(err))

	_, _, err = w.run(t, "", "lib", "create", "x", filepath.Join(w.src, "*.nothing"))
	assert.ErrorIs(t, err, core.ErrBadCommand)

	_, _, err = w.run(t, "", "lib", "create", "x", w.write(t, "x.o", "obj"))
	assert.ErrorIs(t, err, core.ErrBadCommand, "objects alone are not a library")
}

func TestLibCreateRejectsPathNames(t *testing.T) {
	w := newWorkspace(t)
	header := w.write(t, "keep.h", "")
	_, _, err := w.run(t, "", "lib", "create", "keep", header)
	require.NoError(t, err)

	for _, name := range []string{".", "..", "a/b", "/tmp/abs"} {
		_, _, err := w.run(t, "", "lib", "create", name, header, "--force")
		assert.ErrorIs(t, err, core.ErrBadCommand, name)

		_, _, err = w.run(t, "", "lib", "remove", name)
		assert.ErrorIs(t, err, core.ErrBadCommand, name)
	}

	assert.FileExists(t, filepath.Join(w.root, "include", "keep", "keep.h"))
	assert.NoFileExists(t, filepath.Join(w.root, "include", "keep.h"))
}

func TestLibRemoveUnknown(t *testing.T) {
	w := newWorkspace(t)

	_, _, err := w.run(t, "", "lib", "remove", "doesnotexist")
	require.Error(t, err)
	assert.Equal(t, core.ExitNotFound, core.ExitCode(err))
}

func TestLibRemoveWarnsOnMissingFiles(t *testing.T) {
	w := newWorkspace(t)
	header := w.write(t, "gone.h", "")

	_, _, err := w.run(t, "", "lib", "create", "gone", header)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(w.root, "include", "gone")))

	out, errOut, err := w.run(t, "", "lib", "remove", "gone")
	require.NoError(t, err)
	assert.Equal(t, "Removed gone\n", out)
	assert.Contains(t, errOut, "header directory missing")
}

func TestLibListStd(t *testing.T) {
	out, _, err := execute(t, "", "--root", t.TempDir(), "lib", "list", "--std")
	require.NoError(t, err)
	assert.Contains(t, out, "Compiling flags")
	assert.Contains(t, out, "pthread")
	assert.Contains(t, out, "-ldl")
}

func TestFlagsShell(t *testing.T) {
	root := t.TempDir()
	out, _, err := execute(t, "", "--root", root, "flags", "--shell")
	require.NoError(t, err)
	assert.Contains(t, out, "export CPATH=")
	assert.Contains(t, out, filepath.Join(root, "include"))
}

func TestUnknownCommandIsBadCommand(t *testing.T) {
	_, _, err := execute(t, "", "frobnicate")
	assert.ErrorIs(t, err, core.ErrBadCommand)

	_, _, err = execute(t, "", "lib", "list", "--nope")
	assert.ErrorIs(t, err, core.ErrBadCommand)
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "--root", t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "zc version "+Version)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, newPrompt(strings.NewReader("yes\n"), &out).Confirm("Go?"))
	assert.Equal(t, "Go? [y/N] ", out.String())
	assert.True(t, newPrompt(strings.NewReader(" Y"), &out).Confirm("Go?"))
	assert.False(t, newPrompt(strings.NewReader("\n"), &out).Confirm("Go?"))
	assert.False(t, newPrompt(strings.NewReader(""), &out).Confirm("Go?"))
}

func TestPrintTable(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printTable(&out, [][]string{{"Name", "Flags"}, {"math", "-lm"}}))
	assert.Equal(t, "Name  Flags\n----  -----\nmath  -lm\n", out.String())
}
