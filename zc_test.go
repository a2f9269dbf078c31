package zc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLifecycle(t *testing.T) {
	root := t.TempDir()
	settings := DefaultSettings()
	settings.Root = filepath.Join(root, ".zc")

	m := NewManager(settings)
	assert.ErrorIs(t, m.Load(), ErrConfigNotFound)
	assert.Equal(t, 31, ExitCode(m.Load()))

	created, err := m.Setup()
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, m.Load())

	header := filepath.Join(root, "vec.h")
	require.NoError(t, os.WriteFile(header, []byte("struct vec;\n"), 0644))

	pkg := &Package{Name: "vec"}
	_, err = m.Install(context.Background(), pkg, false, Files{Headers: []string{header}})
	require.NoError(t, err)

	src := filepath.Join(root, "main.c")
	require.NoError(t, os.WriteFile(src, []byte("#include <vec.h>\n#include <pthread.h>\n"), 0644))

	flags, err := m.Scan(src)
	require.NoError(t, err)
	assert.Equal(t, []string{"-lvec", "-lpthread"}, flags)

	build, err := m.BuildFlags(context.Background(), []string{src, src})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-I" + m.Registry().IncludeDir(),
		"-L" + m.Registry().LibDir(),
		"-lvec",
		"-lpthread",
	}, build.Args())

	result, err := m.Remove("vec")
	require.NoError(t, err)
	assert.Equal(t, Removed, result.Outcome)

	_, err = m.Remove("vec")
	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestManagerDeclinesOverwriteByDefault(t *testing.T) {
	root := t.TempDir()
	settings := DefaultSettings()
	settings.Root = root

	m := NewManager(settings)
	_, err := m.Setup()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(m.Registry().IncludeDir(), "x"), 0755))

	report, err := m.Install(context.Background(), &Package{Name: "x"}, false, Files{})
	assert.ErrorIs(t, err, ErrOperationsAborted)
	assert.True(t, report.Aborted)

	m = NewManager(settings, WithConfirm(ConfirmFunc(func(string) bool { return true })))
	require.NoError(t, m.Load())
	_, err = m.Install(context.Background(), &Package{Name: "x"}, false, Files{})
	assert.NoError(t, err)
}
