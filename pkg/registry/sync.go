// pkg/registry/sync.go
package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arc-language/urecipe/pkg/fsutil"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/afero"
)

// DefaultBranch is synced when no branch is given
const DefaultBranch = "main"

// Sync clones a registry repository and copies its deps/ directory (or the
// whole checkout when there is none) into depsDir. Existing entries with
// the same name are overwritten.
func Sync(ctx context.Context, url, branch, depsDir string, progress io.Writer) error {
	if branch == "" {
		branch = DefaultBranch
	}

	tempDir, err := os.MkdirTemp("", "urecipe-registry-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	_, err = git.PlainCloneContext(ctx, tempDir, false, &git.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(branch),
		SingleBranch:  true,
		Depth:         1,
		Progress:      progress,
	})
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}

	src := filepath.Join(tempDir, "deps")
	if _, err := os.Stat(src); err != nil {
		src = tempDir
	}

	fsys := afero.NewOsFs()
	if err := fsys.MkdirAll(depsDir, 0755); err != nil {
		return err
	}
	if _, err := fsutil.CopyDir(fsys, src, depsDir); err != nil {
		return fmt.Errorf("copying registry: %w", err)
	}
	// the checkout's own metadata is not part of the registry
	return fsys.RemoveAll(filepath.Join(depsDir, ".git"))
}
