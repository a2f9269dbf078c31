// pkg/core/package.go
package core

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// DefaultVersion is recorded when a package is created without a version
	DefaultVersion = "0.0.1"
	// DefaultAuthor is recorded when a package is created without an author
	DefaultAuthor = "localuser"
)

// Package is a named, installed unit of native code
type Package struct {
	Name    string   // Unique key within the registry
	Author  string   // Free-form provenance
	Version string   // Free-form provenance
	Headers []string // Relative to <includeRoot>/<Name>
	// Binaries holds absolute paths under the lib root. Only artifacts that
	// existed on disk after the build are listed.
	Binaries []string
	Flags    string // Conventionally "-l<Name>"
}

// StdPackage describes a library shipped with the toolchain. It is never
// installed or removed by the registry.
type StdPackage struct {
	Name     string   `yaml:"name"`
	Headers  []string `yaml:"headers"`
	Binaries []string `yaml:"binaries"`
	Flags    string   `yaml:"flags"`
}

// ValidateName rejects package names that are not a single path element.
// The name becomes a directory under the include root, so "." or "a/b"
// would point at the root itself or outside it.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: package name is required", ErrBadCommand)
	case name == "." || name == "..",
		strings.ContainsAny(name, `/\`),
		filepath.Base(name) != name,
		filepath.IsAbs(name):
		return fmt.Errorf("%w: invalid package name %q", ErrBadCommand, name)
	}
	return nil
}

// ApplyDefaults fills the provenance fields and flags left empty by the caller
func (p *Package) ApplyDefaults() {
	if p.Version == "" {
		p.Version = DefaultVersion
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if p.Flags == "" {
		p.Flags = "-l" + p.Name
	}
}

// Clone returns a deep copy so callers never share slices with the registry
func (p Package) Clone() Package {
	p.Headers = slices.Clone(p.Headers)
	p.Binaries = slices.Clone(p.Binaries)
	return p
}

// Clone returns a deep copy of the std package
func (s StdPackage) Clone() StdPackage {
	s.Headers = slices.Clone(s.Headers)
	s.Binaries = slices.Clone(s.Binaries)
	return s
}

// Known is the view of a package consulted by the dependency scanner. Both
// installed and std packages satisfy it.
type Known struct {
	Name  string
	Flags string
}

// DefaultStdPackages returns the libraries every C toolchain provides but
// which still need an explicit link flag.
func DefaultStdPackages() []StdPackage {
	return []StdPackage{
		{Name: "math", Headers: []string{"math.h"}, Flags: "-lm"},
		{Name: "complex", Headers: []string{"complex.h"}, Flags: "-lm"},
		{Name: "pthread", Headers: []string{"pthread.h"}, Flags: "-lpthread"},
		{Name: "dlfcn", Headers: []string{"dlfcn.h"}, Flags: "-ldl"},
	}
}
