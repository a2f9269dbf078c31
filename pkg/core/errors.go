package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates the index or config file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrConfigReading indicates the index or config file could not be opened
	ErrConfigReading = errors.New("configuration file could not be read")

	// ErrConfigParsing indicates the file content is not well-formed
	ErrConfigParsing = errors.New("configuration file could not be parsed")

	// ErrConfigWriting indicates the index could not be written
	ErrConfigWriting = errors.New("configuration file could not be written")

	// ErrCompilation indicates the external compiler failed
	ErrCompilation = errors.New("compilation failed")

	// ErrPackageNotFound indicates the package is not in the registry
	ErrPackageNotFound = errors.New("package not found")

	// ErrOperationsAborted indicates the user declined an overwrite
	ErrOperationsAborted = errors.New("operations aborted")

	// ErrBadCommand indicates the caller supplied unusable input
	ErrBadCommand = errors.New("bad command")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Path    string // File involved if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Package != "" {
		msg += " " + e.Package
	}
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CompilationError reports which source file failed to compile
type CompilationError struct {
	Source string
	Output string // Combined compiler output, may be empty
	Err    error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compiling %s: %v", e.Source, e.Err)
}

// Is lets errors.Is(err, ErrCompilation) match any CompilationError
func (e *CompilationError) Is(target error) bool {
	return target == ErrCompilation
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// Exit codes returned by the zc binary
const (
	ExitOK              = 0
	ExitCompilation     = 10
	ExitNotFound        = 20
	ExitConfigParsing   = 30
	ExitConfigNotFound  = 31
	ExitConfigReading   = 32
	ExitConfigWriting   = 33
	ExitBadCommand      = 40
	ExitOperationsAbort = 51
	ExitInternal        = 60
)

// ExitCode maps an error from the registry to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrCompilation):
		return ExitCompilation
	case errors.Is(err, ErrPackageNotFound):
		return ExitNotFound
	case errors.Is(err, ErrConfigParsing):
		return ExitConfigParsing
	case errors.Is(err, ErrConfigNotFound):
		return ExitConfigNotFound
	case errors.Is(err, ErrConfigReading):
		return ExitConfigReading
	case errors.Is(err, ErrConfigWriting):
		return ExitConfigWriting
	case errors.Is(err, ErrBadCommand):
		return ExitBadCommand
	case errors.Is(err, ErrOperationsAborted):
		return ExitOperationsAbort
	default:
		return ExitInternal
	}
}
