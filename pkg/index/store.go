// Package index owns the on-disk package index: a JSON document holding one
// six-field positional record per installed package.
//
//	{ "libraries": [
//	    [ "math", ["math.h"], ["/root/lib/libmath.a"], "-lmath", "1.0.0", "std" ]
//	] }
//
// Fields are name, headers, binaries, flags, version, author. A record with a
// missing or mistyped field makes the whole file unparsable.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arc-language/zc/pkg/core"
	"github.com/gofrs/flock"
	"github.com/google/renameio/v2/maybe"
	"go.uber.org/zap"
)

const recordFields = 6

// Store reads and rewrites a single index file
type Store struct {
	path   string
	lock   *flock.Flock
	logger *zap.Logger
}

// New creates a Store for the index at path. Concurrent processes coordinate
// through an advisory lock on <path>.lock.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger.Named("index"),
	}
}

// Path returns the index file location
func (s *Store) Path() string {
	return s.path
}

// Load reads every package from the index
func (s *Store) Load() ([]core.Package, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, &core.Error{Op: "loading index", Path: s.path, Err: core.ErrConfigNotFound}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &core.Error{Op: "loading index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigReading, err)}
	}

	pkgs, err := decode(data)
	if err != nil {
		return nil, &core.Error{Op: "loading index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigParsing, err)}
	}

	s.logger.Debug("index loaded", zap.String("path", s.path), zap.Int("packages", len(pkgs)))
	return pkgs, nil
}

// Persist replaces the index with pkgs. The new content is written to a
// temporary file and renamed over the old one.
func (s *Store) Persist(pkgs []core.Package) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	return s.write(pkgs)
}

// Update runs fn over the current on-disk packages while holding the lock
// and persists what fn returns. A missing index counts as empty. If fn fails
// nothing is written. An index that cannot be reloaded is reported as a
// write failure, with the read error as detail.
func (s *Store) Update(fn func([]core.Package) ([]core.Package, error)) ([]core.Package, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	defer s.release()

	current, err := s.Load()
	if errors.Is(err, core.ErrConfigNotFound) {
		current, err = nil, nil
	}
	if err != nil {
		return nil, &core.Error{Op: "updating index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigWriting, err)}
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := s.write(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Init writes an empty index if none exists. It reports whether a file was
// created.
func (s *Store) Init() (bool, error) {
	if _, err := os.Stat(s.path); err == nil {
		return false, nil
	}
	if err := s.Persist(nil); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) acquire() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &core.Error{Op: "locking index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigWriting, err)}
	}
	if err := s.lock.Lock(); err != nil {
		return &core.Error{Op: "locking index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigWriting, err)}
	}
	return nil
}

func (s *Store) release() {
	if err := s.lock.Unlock(); err != nil {
		s.logger.Warn("releasing index lock", zap.Error(err))
	}
}

func (s *Store) write(pkgs []core.Package) error {
	data, err := encode(pkgs)
	if err != nil {
		return &core.Error{Op: "writing index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigWriting, err)}
	}

	if err := maybe.WriteFile(s.path, data, 0644); err != nil {
		return &core.Error{Op: "writing index", Path: s.path, Err: fmt.Errorf("%w: %v", core.ErrConfigWriting, err)}
	}

	s.logger.Debug("index written", zap.String("path", s.path), zap.Int("packages", len(pkgs)))
	return nil
}

type document struct {
	Libraries []record `json:"libraries"`
}

// record is the positional JSON form of a package
type record core.Package

func (r record) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		r.Name,
		orEmpty(r.Headers),
		orEmpty(r.Binaries),
		r.Flags,
		r.Version,
		r.Author,
	})
}

func (r *record) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("package record: %w", err)
	}
	if len(fields) != recordFields {
		return fmt.Errorf("package record has %d fields, want %d", len(fields), recordFields)
	}

	targets := []any{&r.Name, &r.Headers, &r.Binaries, &r.Flags, &r.Version, &r.Author}
	for i, target := range targets {
		if err := json.Unmarshal(fields[i], target); err != nil {
			return fmt.Errorf("package record field %d: %w", i, err)
		}
	}
	return nil
}

func decode(data []byte) ([]core.Package, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	pkgs := make([]core.Package, 0, len(doc.Libraries))
	for _, r := range doc.Libraries {
		pkgs = append(pkgs, core.Package(r))
	}
	return pkgs, nil
}

func encode(pkgs []core.Package) ([]byte, error) {
	doc := document{Libraries: make([]record, 0, len(pkgs))}
	for _, p := range pkgs {
		doc.Libraries = append(doc.Libraries, record(p))
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
