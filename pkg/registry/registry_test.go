package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/arc-language/urecipe/pkg/core"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const kdiagramTOML = `
name = "kdiagram"
version = "2.6.1"
rootpath = "/opt/kdiagram"
resdirs = ["lib/cmake/KChart", "lib/cmake/KGantt"]
`

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/deps/kdiagram/index.toml", []byte(kdiagramTOML), 0644))
	require.NoError(t, afero.WriteFile(fsys, "/deps/zlib/index.toml", []byte("version = \"1.2.11\"\nrootpath = \"pkg\"\n"), 0644))
	require.NoError(t, fsys.MkdirAll("/deps/broken", 0755))
	return NewFS(fsys, "/deps")
}

func TestRegistryResolve(t *testing.T) {
	r := newTestRegistry(t)

	pkg, err := r.Resolve(context.Background(), core.Requirement{Name: "kdiagram", Constraint: "2.6.1"})
	require.NoError(t, err)
	require.Equal(t, "/opt/kdiagram", pkg.RootPath)
	require.Equal(t, []string{"/opt/kdiagram/lib/cmake/KChart", "/opt/kdiagram/lib/cmake/KGantt"}, pkg.ResPaths())
	require.Equal(t, []string{"include"}, pkg.IncludeDirs)
}

func TestRegistryRelativeRootAndDefaults(t *testing.T) {
	r := newTestRegistry(t)

	pkg, err := r.Resolve(context.Background(), core.Requirement{Name: "ZLIB", Constraint: ">=1.2"})
	require.NoError(t, err)
	require.Equal(t, "zlib", pkg.Name)
	require.Equal(t, "/deps/zlib/pkg", pkg.RootPath)
	require.Equal(t, []string{"lib"}, pkg.LibDirs)
	require.Empty(t, pkg.ResDirs)
}

func TestRegistryPinnedVersionMismatch(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Resolve(context.Background(), core.Requirement{Name: "kdiagram", Constraint: "2.7.0"})
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestRegistryMissing(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Resolve(context.Background(), core.Requirement{Name: "qt"})
	require.ErrorIs(t, err, core.ErrNotResolved)

	_, err = r.Load("broken")
	require.ErrorIs(t, err, core.ErrNotResolved)
	require.Contains(t, err.Error(), "missing index.toml")

	_, err = NewFS(afero.NewMemMapFs(), "/nowhere").Load("zlib")
	require.ErrorIs(t, err, core.ErrNotResolved)
}

func TestRegistrySaveAndList(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Save(Entry{Name: "boost", Version: "1.66.0", RootPath: "/opt/boost"}))

	names, err := r.List()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"boost", "kdiagram", "zlib"}, names)

	e, err := r.Load("boost")
	require.NoError(t, err)
	require.Equal(t, "1.66.0", e.Version)
}

const buildInfoJSON = `{
  "dependencies": [
    {
      "name": "OpenSSL",
      "version": "1.0.2n",
      "rootpath": "/home/u/.conan/data/OpenSSL/1.0.2n/conan/stable/package/abc",
      "include_paths": ["/home/u/.conan/data/OpenSSL/1.0.2n/conan/stable/package/abc/include"],
      "lib_paths": ["/home/u/.conan/data/OpenSSL/1.0.2n/conan/stable/package/abc/lib"],
      "bin_paths": [],
      "res_paths": []
    }
  ]
}`

func TestBuildInfoResolve(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/b/conanbuildinfo.json", []byte(buildInfoJSON), 0644))

	info, err := LoadBuildInfo(fsys, "/b/conanbuildinfo.json")
	require.NoError(t, err)

	pkg, err := info.Resolve(context.Background(), core.Requirement{Name: "openssl"})
	require.NoError(t, err)
	require.Equal(t, "1.0.2n", pkg.Version)
	require.Equal(t, "/home/u/.conan/data/OpenSSL/1.0.2n/conan/stable/package/abc/include", pkg.IncludePaths()[0])

	_, err = info.Resolve(context.Background(), core.Requirement{Name: "qt"})
	require.ErrorIs(t, err, core.ErrNotResolved)
}

func TestLoadBuildInfoBadJSON(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/b.json", []byte("{"), 0644))

	_, err := LoadBuildInfo(fsys, "/b.json")
	require.Error(t, err)
}

type failingResolver struct{ err error }

func (f failingResolver) Resolve(context.Context, core.Requirement) (*core.Package, error) {
	return nil, f.err
}

func TestChain(t *testing.T) {
	r := newTestRegistry(t)
	info := &BuildInfo{}

	pkg, err := Chain{info, r}.Resolve(context.Background(), core.Requirement{Name: "kdiagram"})
	require.NoError(t, err)
	require.Equal(t, "kdiagram", pkg.Name)

	_, err = Chain{info, r}.Resolve(context.Background(), core.Requirement{Name: "qt"})
	require.ErrorIs(t, err, core.ErrNotResolved)

	boom := errors.New("permission denied")
	_, err = Chain{failingResolver{boom}, r}.Resolve(context.Background(), core.Requirement{Name: "kdiagram"})
	require.ErrorIs(t, err, boom)

	_, err = Chain{}.Resolve(context.Background(), core.Requirement{Name: "kdiagram"})
	require.ErrorIs(t, err, core.ErrNotResolved)
}
