// Package deps maps the #include directives of a source file to the
// compiler and linker flags of the packages they refer to.
package deps

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/arc-language/zc/pkg/core"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Matcher decides whether an include target refers to the package name
type Matcher func(include, name string) bool

// SubstringMatch matches when name occurs anywhere in the include path, so
// "math" matches both "math.h" and "mathutils.h".
func SubstringMatch(include, name string) bool {
	return name != "" && strings.Contains(include, name)
}

// StemMatch matches when a path component of the include, without its
// extension, equals name: "math" matches "math.h" and "math/vec.h" but not
// "mathutils.h".
func StemMatch(include, name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(include, "/") {
		if strings.TrimSuffix(part, path.Ext(part)) == name {
			return true
		}
	}
	return false
}

// MatcherFor returns the matcher for a Settings.IncludeMatch mode
func MatcherFor(mode string) Matcher {
	if mode == core.MatchStem {
		return StemMatch
	}
	return SubstringMatch
}

// Scanner resolves include directives against known packages
type Scanner struct {
	lister  core.IncludeLister
	match   Matcher
	workers int
	logger  *zap.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithLister replaces the include extractor
func WithLister(l core.IncludeLister) Option {
	return func(s *Scanner) { s.lister = l }
}

// WithMatcher replaces the include-to-package matching rule
func WithMatcher(m Matcher) Option {
	return func(s *Scanner) { s.match = m }
}

// WithWorkers bounds how many files ScanAll reads at once
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) { s.logger = l }
}

// NewScanner creates a Scanner that reads directives from disk and uses
// substring matching unless configured otherwise
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		lister:  DirectiveLister{},
		match:   SubstringMatch,
		workers: 8,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("deps")
	return s
}

// Scan returns the flags implied by the includes of src. For every include,
// every matching package contributes its flags, in known order. Duplicates
// are kept.
func (s *Scanner) Scan(src string, known []core.Known) ([]string, error) {
	includes, err := s.lister.Includes(src)
	if err != nil {
		return nil, err
	}

	flags := []string{}
	for _, inc := range includes {
		for _, k := range known {
			if s.match(inc, k.Name) {
				flags = append(flags, k.Flags)
			}
		}
	}

	s.logger.Debug("scanned source",
		zap.String("source", src),
		zap.Strings("includes", includes),
		zap.Strings("flags", flags))
	return flags, nil
}

// ScanAll scans every source concurrently and returns the union of their
// flags, de-duplicated, in first-seen order following srcs.
func (s *Scanner) ScanAll(ctx context.Context, srcs []string, known []core.Known) ([]string, error) {
	results := make([][]string, len(srcs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workers, 1))
	for i, src := range srcs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			flags, err := s.Scan(src, known)
			if err != nil {
				return err
			}
			results[i] = flags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Dedupe(slices.Concat(results...)), nil
}

// Dedupe drops repeated flags, keeping the first occurrence
func Dedupe(flags []string) []string {
	seen := make(map[string]bool, len(flags))
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
