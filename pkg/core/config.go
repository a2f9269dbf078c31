// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// RootDirName is the directory created under the user's home
	RootDirName = ".zc"
	// IndexFileName is the package index inside the root
	IndexFileName = "registry.json"
	// ConfigFileName is the settings file inside the root
	ConfigFileName = "config.yaml"
	// EnvPrefix prefixes every environment override (ZC_C_COMPILER, ...)
	EnvPrefix = "ZC"
)

// Include matching modes understood by the dependency scanner
const (
	MatchSubstring = "substring"
	MatchStem      = "stem"
)

// Settings holds the compiler configuration. It is built once and then only read.
type Settings struct {
	Root         string       `yaml:"-" envconfig:"ROOT"`
	CCompiler    string       `yaml:"c_compiler" envconfig:"C_COMPILER"`
	CPPCompiler  string       `yaml:"cpp_compiler" envconfig:"CPP_COMPILER"`
	CStd         string       `yaml:"c_std" envconfig:"C_STD"`
	CPPStd       string       `yaml:"cpp_std" envconfig:"CPP_STD"`
	Flags        []string     `yaml:"flags" envconfig:"FLAGS"`
	Archiver     string       `yaml:"archiver" envconfig:"ARCHIVER"`
	IncludeMatch string       `yaml:"include_match" envconfig:"INCLUDE_MATCH"`
	StdPackages  []StdPackage `yaml:"std_packages" ignored:"true"`
	Debug        bool         `yaml:"debug" envconfig:"DEBUG"`
}

// DefaultSettings returns the settings used when no config file exists
func DefaultSettings() *Settings {
	return &Settings{
		Root:         DefaultRoot(),
		CCompiler:    "clang",
		CPPCompiler:  "clang++",
		CStd:         "c17",
		CPPStd:       "c++20",
		Flags:        []string{"-Wall", "-Wextra"},
		Archiver:     "ar",
		IncludeMatch: MatchSubstring,
	}
}

// LoadSettings reads <root>/config.yaml and applies ZC_* environment
// overrides. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	cfg := DefaultSettings()

	// ZC_ROOT decides where the config file lives, so resolve it first
	if root := os.Getenv(EnvPrefix + "_ROOT"); root != "" {
		cfg.Root = root
	}
	if path == "" {
		path = cfg.ConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &Error{Op: "parsing config", Path: path, Err: fmt.Errorf("%w: %v", ErrConfigParsing, err)}
		}
	case os.IsNotExist(err):
	default:
		return nil, &Error{Op: "reading config", Path: path, Err: fmt.Errorf("%w: %v", ErrConfigReading, err)}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if cfg.IncludeMatch != MatchSubstring && cfg.IncludeMatch != MatchStem {
		return nil, &Error{Op: "parsing config", Path: path, Err: fmt.Errorf("%w: unknown include_match %q", ErrConfigParsing, cfg.IncludeMatch)}
	}

	return cfg, nil
}

// SaveSettings writes the settings to path, or to <root>/config.yaml when empty
func SaveSettings(cfg *Settings, path string) error {
	if path == "" {
		path = cfg.ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Compiler returns the compiler for C or C++ sources
func (s *Settings) Compiler(cpp bool) string {
	if cpp {
		return s.CPPCompiler
	}
	return s.CCompiler
}

// Std returns the -std value for C or C++ sources
func (s *Settings) Std(cpp bool) string {
	if cpp {
		return s.CPPStd
	}
	return s.CStd
}

// IncludeDir is the root under which each package gets a header subdirectory
func (s *Settings) IncludeDir() string { return filepath.Join(s.Root, "include") }

// LibDir is where static and shared libraries are written
func (s *Settings) LibDir() string { return filepath.Join(s.Root, "lib") }

// IndexPath is the JSON package index
func (s *Settings) IndexPath() string { return filepath.Join(s.Root, IndexFileName) }

// ConfigPath is the YAML settings file
func (s *Settings) ConfigPath() string { return filepath.Join(s.Root, ConfigFileName) }

// DefaultRoot returns $HOME/.zc (%USERPROFILE% on Windows), falling back to
// ./.zc when no home directory is known.
func DefaultRoot() string {
	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
	} else {
		home = os.Getenv("HOME")
	}

	if home == "" {
		wd, err := os.Getwd()
		if err != nil {
			return RootDirName
		}
		return filepath.Join(wd, RootDirName)
	}

	return filepath.Join(home, RootDirName)
}
