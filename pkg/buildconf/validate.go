// pkg/buildconf/validate.go
package buildconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrInvalidDefinition indicates a definition the build cannot use
var ErrInvalidDefinition = errors.New("invalid build definition")

// Validate checks that every definition is an absolute path that exists on
// fsys. All offending keys are reported together.
func Validate(fsys afero.Fs, m *Mapping) error {
	var problems []string
	for _, e := range m.Entries() {
		switch {
		case e.Value == "":
			problems = append(problems, e.Key+" is empty")
		case !filepath.IsAbs(e.Value):
			problems = append(problems, fmt.Sprintf("%s=%s is not absolute", e.Key, e.Value))
		default:
			ok, err := afero.Exists(fsys, e.Value)
			if err != nil || !ok {
				problems = append(problems, fmt.Sprintf("%s=%s does not exist", e.Key, e.Value))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(problems, "; "))
	}
	return nil
}
