// Package toolchain drives the external compiler, archiver and linker. Every
// invocation is a synchronous child process; there is no parallelism and no
// incremental rebuild logic.
package toolchain

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/arc-language/zc/pkg/classify"
	"github.com/arc-language/zc/pkg/core"
	"github.com/arc-language/zc/pkg/platform"
	"go.uber.org/zap"
)

// Runner executes an external program and returns its combined output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

// Run starts name and waits for it to exit
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Toolchain compiles sources and links libraries using the configured programs
type Toolchain struct {
	settings *core.Settings
	goos     string
	runner   Runner
	logger   *zap.Logger
}

// Option configures a Toolchain
type Option func(*Toolchain)

// WithRunner replaces the process runner
func WithRunner(r Runner) Option {
	return func(tc *Toolchain) { tc.runner = r }
}

// WithGOOS makes the toolchain target another platform's conventions
func WithGOOS(goos string) Option {
	return func(tc *Toolchain) { tc.goos = goos }
}

// New creates a Toolchain from settings
func New(settings *core.Settings, logger *zap.Logger, opts ...Option) *Toolchain {
	if settings == nil {
		settings = core.DefaultSettings()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tc := &Toolchain{
		settings: settings,
		goos:     runtime.GOOS,
		runner:   ExecRunner{},
		logger:   logger.Named("toolchain"),
	}
	for _, opt := range opts {
		opt(tc)
	}
	return tc
}

// ObjectPath returns where Compile writes the object for src: outDir, or
// the source's own directory when outDir is empty, with the extension
// replaced by .o
func ObjectPath(src, outDir string) string {
	obj := strings.TrimSuffix(src, filepath.Ext(src)) + ".o"
	if outDir == "" {
		return obj
	}
	return filepath.Join(outDir, filepath.Base(obj))
}

// Compile turns one source file into an object file in outDir and returns
// its path. Assembler input (lang LangNone) goes through the C compiler
// without -std.
func (tc *Toolchain) Compile(ctx context.Context, src, outDir string, lang classify.Lang, pic bool) (string, error) {
	cpp := lang == classify.LangCPP
	obj := ObjectPath(src, outDir)

	var args []string
	if std := tc.settings.Std(cpp); std != "" && lang != classify.LangNone {
		args = append(args, "-std="+std)
	}
	args = append(args, tc.settings.Flags...)
	args = append(args, "-c")
	if pic {
		args = append(args, "-fPIC")
	}
	args = append(args, src, "-o", obj)

	out, err := tc.run(ctx, tc.settings.Compiler(cpp), args)
	if err != nil {
		return "", &core.CompilationError{Source: src, Output: string(out), Err: err}
	}
	return obj, nil
}

// ArchiveStatic bundles objects into a static library with `ar rcs`. It
// reports whether the archiver exited successfully.
func (tc *Toolchain) ArchiveStatic(ctx context.Context, out string, objects []string) bool {
	args := append([]string{"rcs", out}, objects...)

	if output, err := tc.run(ctx, tc.settings.Archiver, args); err != nil {
		tc.logger.Warn("static archive failed",
			zap.String("output", out),
			zap.Error(err),
			zap.String("stderr", string(output)))
		return false
	}
	return true
}

// LinkShared links objects into a shared library. It reports whether the
// linker exited successfully.
func (tc *Toolchain) LinkShared(ctx context.Context, out string, objects []string, lang classify.Lang) bool {
	args := append([]string{platform.SharedLinkFlag(tc.goos), "-o", out}, objects...)

	if output, err := tc.run(ctx, tc.settings.Compiler(lang == classify.LangCPP), args); err != nil {
		tc.logger.Warn("shared link failed",
			zap.String("output", out),
			zap.Error(err),
			zap.String("stderr", string(output)))
		return false
	}
	return true
}

// SharedExt returns the shared library extension of the target platform
func (tc *Toolchain) SharedExt() string {
	return platform.SharedLibExt(tc.goos)
}

func (tc *Toolchain) run(ctx context.Context, name string, args []string) ([]byte, error) {
	tc.logger.Debug("exec", zap.String("program", name), zap.Strings("args", args))
	return tc.runner.Run(ctx, name, args...)
}
