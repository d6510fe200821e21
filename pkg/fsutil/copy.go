// pkg/fsutil/copy.go
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// CopyFile copies src to dst, replacing dst if it exists. The file mode
// of src is kept.
func CopyFile(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}

	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// OpenFile leaves the mode of an existing file alone
	return fsys.Chmod(dst, info.Mode().Perm())
}

// CopyDir copies the tree under src into dst, creating directories as
// needed. Symbolic links are followed: the target's content is copied
// under the link's name. It returns the destination paths of the copied
// files in walk order.
func CopyDir(fsys afero.Fs, src, dst string) ([]string, error) {
	return copyDir(fsys, src, dst, make(map[string]bool))
}

func copyDir(fsys afero.Fs, src, dst string, seen map[string]bool) ([]string, error) {
	var copied []string
	seen[filepath.Clean(src)] = true

	err := afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return fsys.MkdirAll(target, 0755)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			files, err := copyLink(fsys, path, target, seen)
			if err != nil {
				return fmt.Errorf("copying %s: %w", rel, err)
			}
			copied = append(copied, files...)
			return nil
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("copying %s: unsupported file type %s", rel, info.Mode().Type())
		}
		if err := CopyFile(fsys, path, target); err != nil {
			return fmt.Errorf("copying %s: %w", rel, err)
		}
		copied = append(copied, target)
		return nil
	})
	if err != nil {
		return copied, err
	}
	return copied, nil
}

// copyLink copies what the symlink at path points to
func copyLink(fsys afero.Fs, path, target string, seen map[string]bool) ([]string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if err := CopyFile(fsys, path, target); err != nil {
			return nil, err
		}
		return []string{target}, nil
	}

	dest, err := readlink(fsys, path)
	if err != nil {
		return nil, err
	}
	if seen[dest] {
		return nil, fmt.Errorf("symlink loop at %s", path)
	}
	if err := fsys.MkdirAll(target, 0755); err != nil {
		return nil, err
	}
	return copyDir(fsys, dest, target, seen)
}

// readlink returns the cleaned absolute target of the symlink at path
func readlink(fsys afero.Fs, path string) (string, error) {
	lr, ok := fsys.(afero.LinkReader)
	if !ok {
		return "", fmt.Errorf("%s: filesystem cannot read symlinks", path)
	}
	dest, err := lr.ReadlinkIfPossible(path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return filepath.Clean(dest), nil
}
