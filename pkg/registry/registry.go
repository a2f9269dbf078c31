// pkg/registry/registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/arc-language/zc/pkg/classify"
	"github.com/arc-language/zc/pkg/core"
	"github.com/arc-language/zc/pkg/index"
	"github.com/arc-language/zc/pkg/platform"
	"github.com/arc-language/zc/pkg/toolchain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compiler turns one source file into one object file inside outDir
type Compiler interface {
	Compile(ctx context.Context, src, outDir string, lang classify.Lang, pic bool) (string, error)
}

// Linker produces libraries from object files. Both methods report whether
// the external program exited successfully; the registry only trusts what
// exists on disk afterwards.
type Linker interface {
	ArchiveStatic(ctx context.Context, out string, objects []string) bool
	LinkShared(ctx context.Context, out string, objects []string, lang classify.Lang) bool
}

// Options configures a Registry. Zero values fall back to the settings, the
// host toolchain and the built-in std packages.
type Options struct {
	Settings   *core.Settings
	IncludeDir string
	LibDir     string
	IndexPath  string
	Compiler   Compiler
	Linker     Linker
	Confirm    core.Confirmer    // Asked before overwriting an installed package
	Std        []core.StdPackage // Replaces the built-in std packages when set
	GOOS       string            // Target platform for library naming
	Logger     *zap.Logger
}

// Registry is the set of installed packages together with the directories
// their files live in. Create one per process with New and pass it around.
type Registry struct {
	includeDir string
	libDir     string
	goos       string
	store      *index.Store
	compiler   Compiler
	linker     Linker
	confirm    core.Confirmer
	logger     *zap.Logger

	packages []core.Package
	std      []core.StdPackage
}

// New creates a Registry. Call Load to read the installed packages.
func New(opts Options) *Registry {
	settings := opts.Settings
	if settings == nil {
		settings = core.DefaultSettings()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		includeDir: firstNonEmpty(opts.IncludeDir, settings.IncludeDir()),
		libDir:     firstNonEmpty(opts.LibDir, settings.LibDir()),
		goos:       firstNonEmpty(opts.GOOS, runtime.GOOS),
		compiler:   opts.Compiler,
		linker:     opts.Linker,
		confirm:    opts.Confirm,
		logger:     logger.Named("registry"),
	}
	r.store = index.New(firstNonEmpty(opts.IndexPath, settings.IndexPath()), logger)

	if r.compiler == nil || r.linker == nil {
		tc := toolchain.New(settings, logger, toolchain.WithGOOS(r.goos))
		if r.compiler == nil {
			r.compiler = tc
		}
		if r.linker == nil {
			r.linker = tc
		}
	}
	if r.confirm == nil {
		r.confirm = core.NeverConfirm
	}

	if opts.Std != nil {
		r.std = cloneStd(opts.Std)
	} else {
		r.std = append(core.DefaultStdPackages(), cloneStd(settings.StdPackages)...)
	}

	return r
}

// Load replaces the in-memory package list with the content of the index
func (r *Registry) Load() error {
	pkgs, err := r.store.Load()
	if err != nil {
		return err
	}
	r.packages = pkgs
	return nil
}

// Init creates the include and lib directories and an empty index when none
// exists. It reports whether the index was created.
func (r *Registry) Init() (bool, error) {
	for _, dir := range []string{r.includeDir, r.libDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return r.store.Init()
}

// IndexPath returns the location of the index file
func (r *Registry) IndexPath() string { return r.store.Path() }

// IncludeDir returns the root holding one header directory per package
func (r *Registry) IncludeDir() string { return r.includeDir }

// LibDir returns the directory holding the built libraries
func (r *Registry) LibDir() string { return r.libDir }

// Packages returns a copy of the installed packages
func (r *Registry) Packages() []core.Package {
	out := make([]core.Package, len(r.packages))
	for i, p := range r.packages {
		out[i] = p.Clone()
	}
	return out
}

// StdPackages returns a copy of the toolchain-provided packages
func (r *Registry) StdPackages() []core.StdPackage {
	return cloneStd(r.std)
}

// Lookup returns the installed package called name
func (r *Registry) Lookup(name string) (core.Package, bool) {
	for _, p := range r.packages {
		if p.Name == name {
			return p.Clone(), true
		}
	}
	return core.Package{}, false
}

// Known lists every package the dependency scanner can match, installed
// packages first
func (r *Registry) Known() []core.Known {
	known := make([]core.Known, 0, len(r.packages)+len(r.std))
	for _, p := range r.packages {
		known = append(known, core.Known{Name: p.Name, Flags: p.Flags})
	}
	for _, s := range r.std {
		known = append(known, core.Known{Name: s.Name, Flags: s.Flags})
	}
	return known
}

// Rows renders the installed packages for a table, header row first
func (r *Registry) Rows() [][]string {
	rows := [][]string{{"Package name", "Author", "Version", "Compiling flags", "Headers", "Binaries"}}
	for _, p := range r.packages {
		rows = append(rows, []string{
			p.Name,
			p.Author,
			p.Version,
			p.Flags,
			strings.Join(p.Headers, ", "),
			strings.Join(p.Binaries, ", "),
		})
	}
	return rows
}

// StdRows renders the std packages for a table, header row first
func (r *Registry) StdRows() [][]string {
	rows := [][]string{{"Package name", "Compiling flags", "Headers", "Binaries"}}
	for _, s := range r.std {
		rows = append(rows, []string{
			s.Name,
			s.Flags,
			strings.Join(s.Headers, ", "),
			strings.Join(s.Binaries, ", "),
		})
	}
	return rows
}

// Files are the inputs of an install
type Files struct {
	Headers []string // Copied under <includeDir>/<name>
	Objects []string // Prebuilt objects, linked but never deleted
	Sources []string // Compiled, linked, then their objects are deleted
	CPP     bool     // Compile and link as C++
	BaseDir string   // Headers under BaseDir keep their path relative to it
}

// InstallReport describes what SavePackage did on disk
type InstallReport struct {
	ID       string   // Correlates the log lines of one install
	Aborted  bool     // The overwrite prompt was declined
	Objects  []string // Caller objects followed by compiled objects
	Created  []string // Objects compiled by this install
	BuildDir string   // Temporary directory the sources were compiled into
	Deleted  []string // Created objects removed after linking
	Static   string   // Candidate static library path
	Shared   string   // Candidate shared library path
}

// SavePackage copies the headers of pkg, builds its libraries and records it
// in the index. pkg is filled in with the installed headers and the binaries
// that exist after linking. A package that is already installed is replaced;
// unless force is set, the confirmer is asked first.
//
// A failure after the headers were copied leaves them in place.
func (r *Registry) SavePackage(ctx context.Context, pkg *core.Package, force bool, files Files) (*InstallReport, error) {
	if pkg == nil {
		return nil, &core.Error{Op: "installing", Err: core.ValidateName("")}
	}
	if err := core.ValidateName(pkg.Name); err != nil {
		return nil, &core.Error{Op: "installing", Err: err}
	}
	pkg.ApplyDefaults()

	report := &InstallReport{
		ID:     uuid.NewString(),
		Static: filepath.Join(r.libDir, platform.StaticLibName(pkg.Name)),
		Shared: filepath.Join(r.libDir, platform.SharedLibName(pkg.Name, r.goos)),
	}
	log := r.logger.With(zap.String("op", report.ID), zap.String("package", pkg.Name))

	pkgDir := filepath.Join(r.includeDir, pkg.Name)
	if _, err := os.Stat(pkgDir); err == nil && !force {
		question := fmt.Sprintf("Package %s is already installed. Overwrite it?", pkg.Name)
		if !r.confirm.Confirm(question) {
			log.Info("install aborted")
			report.Aborted = true
			return report, &core.Error{Op: "installing", Package: pkg.Name, Err: core.ErrOperationsAborted}
		}
	}

	log.Info("installing package",
		zap.Int("headers", len(files.Headers)),
		zap.Int("sources", len(files.Sources)),
		zap.Int("objects", len(files.Objects)))

	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return report, &core.Error{Op: "installing", Package: pkg.Name, Path: pkgDir, Err: err}
	}
	for _, h := range files.Headers {
		rel := headerDest(h, files.BaseDir)
		dst := filepath.Join(pkgDir, rel)
		if err := copyFile(h, dst); err != nil {
			return report, &core.Error{Op: "copying header", Package: pkg.Name, Path: h, Err: err}
		}
		pkg.Headers = append(pkg.Headers, filepath.ToSlash(rel))
		log.Debug("header copied", zap.String("from", h), zap.String("to", dst))
	}

	report.Objects = slices.Clone(files.Objects)
	if len(files.Sources) > 0 {
		buildDir, err := os.MkdirTemp("", "zc-build-")
		if err != nil {
			return report, &core.Error{Op: "installing", Package: pkg.Name, Err: err}
		}
		defer os.RemoveAll(buildDir)
		report.BuildDir = buildDir
	}
	for i, src := range files.Sources {
		outDir, err := objectDir(report.BuildDir, src, i, report.Created)
		if err != nil {
			return report, &core.Error{Op: "installing", Package: pkg.Name, Path: outDir, Err: err}
		}
		obj, err := r.compiler.Compile(ctx, src, outDir, sourceLang(src, files.CPP), true)
		if err != nil {
			report.Deleted = removeAll(report.Created, log)
			log.Warn("compilation failed", zap.String("source", src), zap.Error(err))
			return report, err
		}
		report.Created = append(report.Created, obj)
		report.Objects = append(report.Objects, obj)
	}

	if len(report.Objects) > 0 {
		if err := os.MkdirAll(r.libDir, 0755); err != nil {
			return report, &core.Error{Op: "installing", Package: pkg.Name, Path: r.libDir, Err: err}
		}

		lang := classify.LangC
		if files.CPP {
			lang = classify.LangCPP
		}
		if !r.linker.ArchiveStatic(ctx, report.Static, report.Objects) {
			log.Warn("static library not built", zap.String("path", report.Static))
		}
		if !r.linker.LinkShared(ctx, report.Shared, report.Objects, lang) {
			log.Warn("shared library not built", zap.String("path", report.Shared))
		}

		report.Deleted = removeAll(report.Created, log)
	}

	for _, bin := range []string{report.Static, report.Shared} {
		if _, err := os.Stat(bin); err == nil {
			pkg.Binaries = append(pkg.Binaries, bin)
		}
	}

	installed := pkg.Clone()
	next, err := r.store.Update(func(current []core.Package) ([]core.Package, error) {
		return upsert(current, installed), nil
	})
	if err != nil {
		log.Error("index not updated", zap.Error(err))
		return report, err
	}
	r.packages = next

	log.Info("package installed", zap.Strings("binaries", pkg.Binaries))
	return report, nil
}

// Outcome classifies how completely a removal cleaned up the filesystem
type Outcome int

const (
	// Removed means the header directory and every binary were deleted
	Removed Outcome = iota
	// DirectoryMissing means the header directory was already gone
	DirectoryMissing
	// BinaryMissing means at least one recorded binary was already gone
	BinaryMissing
	// DirectoryAndBinaryMissing combines both
	DirectoryAndBinaryMissing
)

func (o Outcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case DirectoryMissing:
		return "header directory missing"
	case BinaryMissing:
		return "binary missing"
	case DirectoryAndBinaryMissing:
		return "header directory and binary missing"
	}
	return "unknown"
}

// RemoveResult reports what RemovePackage found on disk
type RemoveResult struct {
	Name            string
	Outcome         Outcome
	MissingBinaries []string
}

// OK reports whether every file of the package was still present and deleted
func (r RemoveResult) OK() bool {
	return r.Outcome == Removed
}

// RemovePackage drops name from the index, then deletes its header directory
// and binaries. Files that were already gone are reported through the
// result's Outcome, not as an error.
func (r *Registry) RemovePackage(name string) (RemoveResult, error) {
	result := RemoveResult{Name: name}
	if err := core.ValidateName(name); err != nil {
		return result, &core.Error{Op: "removing", Err: err}
	}

	var binaries []string
	found := false
	for _, p := range r.packages {
		if p.Name == name {
			found = true
			binaries = appendUnique(binaries, p.Binaries...)
		}
	}
	if !found {
		return result, &core.Error{Op: "removing", Package: name, Err: core.ErrPackageNotFound}
	}

	log := r.logger.With(zap.String("package", name))

	next, err := r.store.Update(func(current []core.Package) ([]core.Package, error) {
		return slices.DeleteFunc(current, func(p core.Package) bool {
			if p.Name == name {
				binaries = appendUnique(binaries, p.Binaries...)
				return true
			}
			return false
		}), nil
	})
	if err != nil {
		log.Error("index not updated", zap.Error(err))
		return result, err
	}
	r.packages = next

	var errs []error
	dirMissing := false
	pkgDir := filepath.Join(r.includeDir, name)
	if _, err := os.Stat(pkgDir); os.IsNotExist(err) {
		dirMissing = true
	} else if err := os.RemoveAll(pkgDir); err != nil {
		errs = append(errs, fmt.Errorf("removing %s: %w", pkgDir, err))
	}

	for _, bin := range binaries {
		err := os.Remove(bin)
		switch {
		case err == nil:
		case os.IsNotExist(err):
			result.MissingBinaries = append(result.MissingBinaries, bin)
		default:
			errs = append(errs, fmt.Errorf("removing %s: %w", bin, err))
		}
	}

	switch {
	case dirMissing && len(result.MissingBinaries) > 0:
		result.Outcome = DirectoryAndBinaryMissing
	case dirMissing:
		result.Outcome = DirectoryMissing
	case len(result.MissingBinaries) > 0:
		result.Outcome = BinaryMissing
	}

	if len(errs) > 0 {
		return result, &core.Error{Op: "removing", Package: name, Err: errors.Join(errs...)}
	}

	log.Info("package removed", zap.Stringer("outcome", result.Outcome))
	return result, nil
}

// upsert replaces the first entry named like pkg, or appends pkg
func upsert(pkgs []core.Package, pkg core.Package) []core.Package {
	for i, p := range pkgs {
		if p.Name == pkg.Name {
			pkgs[i] = pkg
			return pkgs
		}
	}
	return append(pkgs, pkg)
}

// headerDest returns where a header lands inside the package directory.
// Paths under base keep their structure relative to it, other relative paths
// are kept as given, and anything that would escape the directory is reduced
// to its base name.
func headerDest(path, base string) string {
	if base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && filepath.IsLocal(rel) {
			return rel
		}
	}
	if !filepath.IsAbs(path) && filepath.IsLocal(path) {
		return filepath.Clean(path)
	}
	return filepath.Base(path)
}

// objectDir returns the directory the object of the i-th source goes to.
// Sources sharing a stem get a numbered subdirectory so their objects do
// not overwrite each other.
func objectDir(buildDir, src string, i int, created []string) (string, error) {
	name := filepath.Base(toolchain.ObjectPath(src, ""))
	for _, obj := range created {
		if filepath.Base(obj) == name {
			dir := filepath.Join(buildDir, strconv.Itoa(i))
			return dir, os.MkdirAll(dir, 0755)
		}
	}
	return buildDir, nil
}

// sourceLang picks the language a source is compiled as
func sourceLang(src string, cpp bool) classify.Lang {
	if classify.Classify(src).Class == classify.Assembler {
		return classify.LangNone
	}
	if cpp {
		return classify.LangCPP
	}
	return classify.LangC
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// removeAll deletes files and returns those actually removed
func removeAll(paths []string, log *zap.Logger) []string {
	var removed []string
	for _, p := range paths {
		if err := os.Remove(p); err != nil {
			log.Warn("object not deleted", zap.String("path", p), zap.Error(err))
			continue
		}
		removed = append(removed, p)
	}
	return removed
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		if !slices.Contains(dst, it) {
			dst = append(dst, it)
		}
	}
	return dst
}

func cloneStd(std []core.StdPackage) []core.StdPackage {
	out := make([]core.StdPackage, len(std))
	for i, s := range std {
		out[i] = s.Clone()
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
