// pkg/env/constants.go
package env

// LibraryExtensions returns file extensions to look for on goos, shared first
func LibraryExtensions(goos string) []string {
	return append(SharedLibraryExtensions(goos), StaticLibraryExtensions(goos)...)
}

// SharedLibraryExtensions returns only shared library extensions
func SharedLibraryExtensions(goos string) []string {
	switch goos {
	case "darwin", "ios":
		return []string{".dylib"}
	case "windows":
		return []string{".dll"}
	default:
		return []string{".so"}
	}
}

// StaticLibraryExtensions returns only static library extensions. The
// archiver writes .a everywhere, Windows included.
func StaticLibraryExtensions(goos string) []string {
	return []string{".a"}
}

func isStatic(ext string) bool {
	return ext == ".a"
}
