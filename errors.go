// errors.go
package urecipe

import (
	"fmt"

	"github.com/arc-language/urecipe/pkg/buildconf"
	"github.com/arc-language/urecipe/pkg/cmake"
	"github.com/arc-language/urecipe/pkg/core"
	"github.com/arc-language/urecipe/pkg/dist"
	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/arc-language/urecipe/pkg/source"
)

var (
	// ErrNotResolved indicates a requirement no resolver could answer
	ErrNotResolved = core.ErrNotResolved

	// ErrFetch indicates the source tree could not be cloned or checked out
	ErrFetch = source.ErrFetch

	// ErrMissingDependency indicates a dependency the build definitions need was not resolved
	ErrMissingDependency = buildconf.ErrMissingDependency

	// ErrInvalidDefinition indicates a build definition that is not an existing absolute path
	ErrInvalidDefinition = buildconf.ErrInvalidDefinition

	// ErrStepFailed indicates a configure, build or install failure
	ErrStepFailed = cmake.ErrStepFailed

	// ErrCommandFailed indicates an external command exited unsuccessfully
	ErrCommandFailed = shell.ErrCommandFailed

	// ErrUnknownFormat indicates an unsupported archive format
	ErrUnknownFormat = dist.ErrUnknownFormat
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Step that failed
	Package string // Recipe name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
