// Package stage turns command line file arguments into the list of files a
// library is built from. Arguments may be glob patterns (with ** for any
// depth) or source bundles (.tar, .tar.gz, .tar.xz, .tar.zst) that are
// unpacked into a temporary directory first.
package stage

import (
	"fmt"
	"os"
	"strings"

	"github.com/arc-language/zc/pkg/core"
	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// Staged is the result of staging file arguments
type Staged struct {
	Files []string
	// BaseDir is the temporary directory bundles were unpacked into, empty
	// when no bundle was given. Headers from a bundle keep their path
	// relative to it.
	BaseDir string
}

// Cleanup removes the temporary bundle directory
func (s *Staged) Cleanup() error {
	if s.BaseDir == "" {
		return nil
	}
	return os.RemoveAll(s.BaseDir)
}

// Expand replaces every glob pattern in args with the files it matches.
// Plain paths are kept as given. A pattern matching nothing is an error.
func Expand(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if !hasMeta(arg) {
			out = append(out, arg)
			continue
		}

		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("%w: invalid pattern %q", core.ErrBadCommand, arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %q matches no files", core.ErrBadCommand, arg)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// Stage expands args and unpacks any bundles among them. The caller must call
// Cleanup on the result once the files are no longer needed.
func Stage(args []string, logger *zap.Logger) (*Staged, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := Expand(args)
	if err != nil {
		return nil, err
	}

	staged := &Staged{}
	for _, p := range paths {
		if ArchiveFormat(p) == FormatNone {
			staged.Files = append(staged.Files, p)
			continue
		}

		if staged.BaseDir == "" {
			staged.BaseDir, err = os.MkdirTemp("", "zc-stage-")
			if err != nil {
				return nil, fmt.Errorf("creating staging directory: %w", err)
			}
		}

		files, err := Extract(p, staged.BaseDir, logger)
		if err != nil {
			staged.Cleanup()
			return nil, fmt.Errorf("staging %s: %w", p, err)
		}
		staged.Files = append(staged.Files, files...)
	}

	return staged, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
