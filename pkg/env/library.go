// pkg/env/library.go
package env

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// New creates an Environment over the registry directories
func New(includeDir, libDir string) *Environment {
	return &Environment{
		IncludeDir: includeDir,
		LibDir:     libDir,
		GOOS:       runtime.GOOS,
	}
}

// Flags returns the flags a consumer build needs to compile against the
// registry, followed by link, which usually comes from a dependency scan
func (e *Environment) Flags(link []string) CompilerFlags {
	return CompilerFlags{
		IncludeFlags: []string{"-I" + e.IncludeDir},
		LibraryFlags: []string{"-L" + e.LibDir},
		LinkFlags:    slices.Clone(link),
	}
}

// Vars returns the environment variables GCC and Clang read for search
// paths, with the registry directories prepended to the current values
func (e *Environment) Vars() map[string]string {
	vars := map[string]string{
		"CPATH":        prependPath(e.IncludeDir, os.Getenv("CPATH")),
		"LIBRARY_PATH": prependPath(e.LibDir, os.Getenv("LIBRARY_PATH")),
	}
	switch e.GOOS {
	case "darwin", "ios":
		vars["DYLD_LIBRARY_PATH"] = prependPath(e.LibDir, os.Getenv("DYLD_LIBRARY_PATH"))
	case "windows":
		vars["PATH"] = prependPath(e.LibDir, os.Getenv("PATH"))
	default:
		vars["LD_LIBRARY_PATH"] = prependPath(e.LibDir, os.Getenv("LD_LIBRARY_PATH"))
	}
	return vars
}

// FindLibrary searches the lib root for lib<name>, shared before static.
// Returns nil when nothing matches.
func (e *Environment) FindLibrary(name string) *Library {
	return e.find(name, LibraryExtensions(e.GOOS))
}

// FindSharedLibrary searches specifically for a shared library
func (e *Environment) FindSharedLibrary(name string) *Library {
	return e.find(name, SharedLibraryExtensions(e.GOOS))
}

// FindStaticLibrary searches specifically for a static library
func (e *Environment) FindStaticLibrary(name string) *Library {
	return e.find(name, StaticLibraryExtensions(e.GOOS))
}

func (e *Environment) find(name string, extensions []string) *Library {
	for _, ext := range extensions {
		fullPath := filepath.Join(e.LibDir, "lib"+name+ext)
		if fileExists(fullPath) {
			return &Library{
				Name:     name,
				Path:     fullPath,
				Type:     ext,
				IsStatic: isStatic(ext),
			}
		}
	}
	return nil
}

// FindAllLibraries returns every library in the lib root, sorted by file name
func (e *Environment) FindAllLibraries() []*Library {
	entries, err := os.ReadDir(e.LibDir)
	if err != nil {
		return nil
	}

	extensions := LibraryExtensions(e.GOOS)
	var libraries []*Library
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		if !strings.HasPrefix(name, "lib") || !slices.Contains(extensions, ext) {
			continue
		}

		libraries = append(libraries, &Library{
			Name:     strings.TrimSuffix(strings.TrimPrefix(name, "lib"), ext),
			Path:     filepath.Join(e.LibDir, name),
			Type:     ext,
			IsStatic: isStatic(ext),
		})
	}

	return libraries
}

// HasLibrary checks if a library exists in the lib root
func (e *Environment) HasLibrary(name string) bool {
	return e.FindLibrary(name) != nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func prependPath(dir, current string) string {
	if current == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + current
}
