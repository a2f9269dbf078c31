// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Platform describes the host as far as building native libraries goes
type Platform struct {
	OS        string   // linux, darwin, windows
	Arch      string   // amd64, arm64, 386, arm
	SharedExt string   // .so, .dylib or .dll
	Available []string // Toolchain programs found in PATH
}

// Detect inspects the host and reports which of the given programs are
// available in PATH.
func Detect(tools ...string) *Platform {
	p := &Platform{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		SharedExt: SharedLibExt(runtime.GOOS),
		Available: []string{},
	}

	for _, tool := range tools {
		if tool != "" && commandExists(tool) && !contains(p.Available, tool) {
			p.Available = append(p.Available, tool)
		}
	}

	return p
}

// Has reports whether tool was found by Detect
func (p *Platform) Has(tool string) bool {
	return contains(p.Available, tool)
}

// SharedLibExt returns the shared library extension for goos
func SharedLibExt(goos string) string {
	switch goos {
	case "darwin", "ios":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// SharedLinkFlag returns the compiler flag that produces a shared library
func SharedLinkFlag(goos string) string {
	if goos == "darwin" || goos == "ios" {
		return "-dynamiclib"
	}
	return "-shared"
}

// StaticLibName returns lib<name>.a
func StaticLibName(name string) string {
	return "lib" + name + ".a"
}

// SharedLibName returns lib<name> with the shared extension for goos
func SharedLibName(name, goos string) string {
	return "lib" + name + SharedLibExt(goos)
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s (shared: %s, available: %v)",
		p.OS, p.Arch, p.SharedExt, p.Available)
}
