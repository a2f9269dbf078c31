// zc.go
package zc

import (
	"context"

	"github.com/arc-language/zc/pkg/core"
	"github.com/arc-language/zc/pkg/deps"
	"github.com/arc-language/zc/pkg/env"
	"github.com/arc-language/zc/pkg/registry"
	"go.uber.org/zap"
)

// Re-export the types a build tool needs
type (
	Package       = core.Package
	StdPackage    = core.StdPackage
	Settings      = core.Settings
	Confirmer     = core.Confirmer
	ConfirmFunc   = core.ConfirmFunc
	Registry      = registry.Registry
	Files         = registry.Files
	InstallReport = registry.InstallReport
	RemoveResult  = registry.RemoveResult
	Outcome       = registry.Outcome
	CompilerFlags = env.CompilerFlags
)

// Re-export removal outcomes
const (
	Removed                   = registry.Removed
	DirectoryMissing          = registry.DirectoryMissing
	BinaryMissing             = registry.BinaryMissing
	DirectoryAndBinaryMissing = registry.DirectoryAndBinaryMissing
)

// DefaultSettings returns the settings used when no config file exists
func DefaultSettings() *Settings {
	return core.DefaultSettings()
}

// LoadSettings reads the config file at path (or <root>/config.yaml) and
// applies ZC_* environment overrides
func LoadSettings(path string) (*Settings, error) {
	return core.LoadSettings(path)
}

// Manager ties the package registry to dependency scanning and consumer
// build flags. Create one per process and share it.
type Manager struct {
	settings *Settings
	registry *registry.Registry
	scanner  *deps.Scanner
	env      *env.Environment
}

// Option configures a Manager
type Option func(*managerOptions)

type managerOptions struct {
	logger  *zap.Logger
	confirm core.Confirmer
}

// WithLogger sets the logger shared by every component
func WithLogger(l *zap.Logger) Option {
	return func(o *managerOptions) { o.logger = l }
}

// WithConfirm sets who is asked before an installed package is overwritten
func WithConfirm(c core.Confirmer) Option {
	return func(o *managerOptions) { o.confirm = c }
}

// NewManager wires a Manager from settings. It performs no I/O; call Load
// before reading or changing packages.
func NewManager(settings *Settings, opts ...Option) *Manager {
	if settings == nil {
		settings = core.DefaultSettings()
	}

	o := managerOptions{logger: zap.NewNop(), confirm: core.NeverConfirm}
	for _, opt := range opts {
		opt(&o)
	}

	reg := registry.New(registry.Options{
		Settings: settings,
		Confirm:  o.confirm,
		Logger:   o.logger,
	})

	return &Manager{
		settings: settings,
		registry: reg,
		scanner: deps.NewScanner(
			deps.WithMatcher(deps.MatcherFor(settings.IncludeMatch)),
			deps.WithLogger(o.logger),
		),
		env: env.New(reg.IncludeDir(), reg.LibDir()),
	}
}

// Settings returns the settings the manager was built with
func (m *Manager) Settings() *Settings { return m.settings }

// Registry returns the package registry
func (m *Manager) Registry() *Registry { return m.registry }

// Environment returns the consumer view of the registry directories
func (m *Manager) Environment() *env.Environment { return m.env }

// Setup creates the registry directories and an empty index. It reports
// whether the index was created.
func (m *Manager) Setup() (bool, error) {
	return m.registry.Init()
}

// Load reads the installed packages from the index
func (m *Manager) Load() error {
	return m.registry.Load()
}

// Install builds and records a package
func (m *Manager) Install(ctx context.Context, pkg *Package, force bool, files Files) (*InstallReport, error) {
	return m.registry.SavePackage(ctx, pkg, force, files)
}

// Remove deletes an installed package
func (m *Manager) Remove(name string) (RemoveResult, error) {
	return m.registry.RemovePackage(name)
}

// Scan returns the link flags of one source, duplicates included
func (m *Manager) Scan(src string) ([]string, error) {
	return m.scanner.Scan(src, m.registry.Known())
}

// LinkFlags returns the de-duplicated link flags for a set of sources
func (m *Manager) LinkFlags(ctx context.Context, srcs []string) ([]string, error) {
	return m.scanner.ScanAll(ctx, srcs, m.registry.Known())
}

// BuildFlags returns everything a consumer build needs: search paths for
// the registry plus the link flags of srcs
func (m *Manager) BuildFlags(ctx context.Context, srcs []string) (CompilerFlags, error) {
	link, err := m.LinkFlags(ctx, srcs)
	if err != nil {
		return CompilerFlags{}, err
	}
	return m.env.Flags(link), nil
}
