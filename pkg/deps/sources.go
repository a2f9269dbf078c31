package deps

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/arc-language/zc/pkg/classify"
	"github.com/charlievieth/fastwalk"
)

// skipDirs are never searched for sources
var skipDirs = map[string]bool{
	"build":        true,
	"node_modules": true,
	"vendor":       true,
}

// FindSources walks root and returns every C or C++ source file, sorted.
// Hidden directories and build output directories are skipped.
func FindSources(root string) ([]string, error) {
	var (
		mu      sync.Mutex
		sources []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries
		}

		if d.IsDir() {
			name := d.Name()
			if p != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return fs.SkipDir
			}
			return nil
		}

		if classify.Classify(p).Class != classify.Source {
			return nil
		}

		mu.Lock()
		sources = append(sources, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	slices.Sort(sources)
	return sources, nil
}

// RelativeTo rewrites paths relative to base where possible
func RelativeTo(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if rel, err := filepath.Rel(base, p); err == nil {
			out[i] = rel
		} else {
			out[i] = p
		}
	}
	return out
}
