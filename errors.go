// errors.go
package zc

import "github.com/arc-language/zc/pkg/core"

var (
	// ErrConfigNotFound indicates the index does not exist yet
	ErrConfigNotFound = core.ErrConfigNotFound

	// ErrConfigReading indicates the index could not be read
	ErrConfigReading = core.ErrConfigReading

	// ErrConfigParsing indicates the index or config is malformed
	ErrConfigParsing = core.ErrConfigParsing

	// ErrConfigWriting indicates the index could not be written
	ErrConfigWriting = core.ErrConfigWriting

	// ErrCompilation indicates a source failed to compile
	ErrCompilation = core.ErrCompilation

	// ErrPackageNotFound indicates the package is not installed
	ErrPackageNotFound = core.ErrPackageNotFound

	// ErrOperationsAborted indicates the user declined an overwrite
	ErrOperationsAborted = core.ErrOperationsAborted

	// ErrBadCommand indicates unusable input
	ErrBadCommand = core.ErrBadCommand
)

// Error wraps an error with additional context
type Error = core.Error

// CompilationError names the source that failed to compile
type CompilationError = core.CompilationError

// ExitCode maps an error to the exit status of the zc binary
func ExitCode(err error) int {
	return core.ExitCode(err)
}
