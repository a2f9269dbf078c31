// pkg/env/types.go
package env

import "strings"

// Library represents a library file found in the lib root
type Library struct {
	Name     string // Library name (e.g., "ssl")
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib", ".dll"
	IsStatic bool   // True for .a files
}

// Environment is the view a consumer build has of the registry directories
type Environment struct {
	IncludeDir string // Root holding one directory per package
	LibDir     string // Where lib<name>.a and lib<name>.so live
	GOOS       string // Decides which shared extension is searched
}

// CompilerFlags holds compiler and linker flags
type CompilerFlags struct {
	IncludeFlags []string // -I flags
	LibraryFlags []string // -L flags
	LinkFlags    []string // -l flags and anything else a package declares
}

// Args returns the flags in command line order
func (f CompilerFlags) Args() []string {
	args := make([]string, 0, len(f.IncludeFlags)+len(f.LibraryFlags)+len(f.LinkFlags))
	args = append(args, f.IncludeFlags...)
	args = append(args, f.LibraryFlags...)
	args = append(args, f.LinkFlags...)
	return args
}

func (f CompilerFlags) String() string {
	return strings.Join(f.Args(), " ")
}
