package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCopyDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/src/a", []byte("a"), 0755))
	require.NoError(t, afero.WriteFile(fsys, "/src/sub/b", []byte("b"), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/dst/a", []byte("old"), 0600))

	copied, err := CopyDir(fsys, "/src", "/dst")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"/dst/a", "/dst/sub/b"}, copied)

	data, err := afero.ReadFile(fsys, "/dst/a")
	require.NoError(t, err)
	require.Equal(t, "a", string(data))

	info, err := fsys.Stat("/dst/a")
	require.NoError(t, err)
	require.Equal(t, 0755, int(info.Mode().Perm()))
}

func TestCopyDirMissingSource(t *testing.T) {
	_, err := CopyDir(afero.NewMemMapFs(), "/nope", "/dst")
	require.Error(t, err)
}

func TestCopyDirFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "real"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "tool-1.1"), []byte("tool"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "real", "data"), []byte("data"), 0644))
	require.NoError(t, os.Symlink("tool-1.1", filepath.Join(src, "tool")))
	require.NoError(t, os.Symlink("real", filepath.Join(src, "alias")))

	copied, err := CopyDir(afero.NewOsFs(), src, dst)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(dst, "tool-1.1"),
		filepath.Join(dst, "tool"),
		filepath.Join(dst, "real", "data"),
		filepath.Join(dst, "alias", "data"),
	}, copied)

	info, err := os.Lstat(filepath.Join(dst, "tool"))
	require.NoError(t, err)
	require.True(t, info.Mode().IsRegular())
	require.Equal(t, 0755, int(info.Mode().Perm()))

	data, err := os.ReadFile(filepath.Join(dst, "alias", "data"))
	require.NoError(t, err)
	require.Equal(t, "data", string(data))
}

func TestCopyDirDanglingSymlink(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.Symlink("missing", filepath.Join(src, "tool")))

	_, err := CopyDir(afero.NewOsFs(), src, filepath.Join(root, "dst"))
	require.ErrorContains(t, err, "tool")
}

func TestCopyDirSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.Symlink(".", filepath.Join(src, "self")))

	_, err := CopyDir(afero.NewOsFs(), src, filepath.Join(root, "dst"))
	require.ErrorContains(t, err, "symlink loop")
}
