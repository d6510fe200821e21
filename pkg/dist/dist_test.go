package dist

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arc-language/urecipe/pkg/apt"
	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix/nar"
)

var meta = Metadata{
	Name:        "heaptrack",
	Version:     "1.1.0",
	Description: "A heap memory profiler for Linux",
	OS:          "linux",
	Arch:        "x86_64",
}

func newPackageDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "heaptrack"), []byte("#!/bin/sh\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "libheaptrack_inject.so"), []byte("ELF"), 0644))
	return dir
}

func tarNames(t *testing.T, r io.Reader) []string {
	t.Helper()
	var names []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
	return names
}

func TestArchiveName(t *testing.T) {
	require.Equal(t, "heaptrack-1.1.0-linux-x86_64.tar.xz", meta.ArchiveName(FormatTarXz))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".TAR.XZ")
	require.NoError(t, err)
	require.Equal(t, FormatTarXz, f)

	_, err = ParseFormat("rpm")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPackageTarXz(t *testing.T) {
	out := t.TempDir()
	archives, err := NewPackager(&Config{OutputDir: out}).Package(newPackageDir(t), meta, []string{FormatTarXz})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "heaptrack-1.1.0-linux-x86_64.tar.xz")}, archives)

	f, err := os.Open(archives[0])
	require.NoError(t, err)
	defer f.Close()
	xr, err := xz.NewReader(f)
	require.NoError(t, err)

	require.Equal(t, []string{"./", "./bin/", "./bin/heaptrack", "./lib/", "./lib/libheaptrack_inject.so"}, tarNames(t, xr))
}

func TestPackageTarXzIsReproducible(t *testing.T) {
	pkgDir := newPackageDir(t)

	a, err := NewPackager(&Config{OutputDir: t.TempDir()}).Package(pkgDir, meta, []string{FormatTarXz})
	require.NoError(t, err)
	b, err := NewPackager(&Config{OutputDir: t.TempDir()}).Package(pkgDir, meta, []string{FormatTarXz})
	require.NoError(t, err)

	da, err := os.ReadFile(a[0])
	require.NoError(t, err)
	db, err := os.ReadFile(b[0])
	require.NoError(t, err)
	require.True(t, bytes.Equal(da, db))
}

func TestPackageTarZst(t *testing.T) {
	archives, err := NewPackager(&Config{OutputDir: t.TempDir()}).Package(newPackageDir(t), meta, []string{"tar.zst"})
	require.NoError(t, err)

	f, err := os.Open(archives[0])
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	require.Contains(t, tarNames(t, zr), "./bin/heaptrack")
}

func TestPackageDeb(t *testing.T) {
	archives, err := NewPackager(&Config{OutputDir: t.TempDir()}).Package(newPackageDir(t), meta, []string{FormatDeb})
	require.NoError(t, err)

	f, err := os.Open(archives[0])
	require.NoError(t, err)
	defer f.Close()

	var members []string
	var control string
	var data []string
	rd := ar.NewReader(f)
	for {
		hdr, err := rd.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		name := strings.TrimSuffix(hdr.Name, "/")
		members = append(members, name)

		body, err := io.ReadAll(rd)
		require.NoError(t, err)

		switch {
		case name == "debian-binary":
			require.Equal(t, "2.0\n", string(body))
		case strings.HasPrefix(name, "control.tar"):
			gr, err := gzip.NewReader(bytes.NewReader(body))
			require.NoError(t, err)
			tr := tar.NewReader(gr)
			_, err = tr.Next()
			require.NoError(t, err)
			c, err := io.ReadAll(tr)
			require.NoError(t, err)
			control = string(c)
		case strings.HasPrefix(name, "data.tar"):
			xr, err := xz.NewReader(bytes.NewReader(body))
			require.NoError(t, err)
			data = tarNames(t, xr)
		}
	}

	require.Equal(t, []string{"debian-binary", "control.tar.gz", "data.tar.xz"}, members)
	require.Contains(t, control, "Package: heaptrack\n")
	require.Contains(t, control, "Architecture: amd64\n")
	require.Contains(t, control, "Version: 1.1.0\n")
	require.Contains(t, data, "./usr/bin/heaptrack")
}

func TestPackageDebUnsupportedArch(t *testing.T) {
	m := meta
	m.Arch = "sparc"
	out := t.TempDir()

	_, err := NewPackager(&Config{OutputDir: out}).Package(newPackageDir(t), m, []string{FormatDeb})
	require.Error(t, err)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDebArch(t *testing.T) {
	tests := []struct {
		in   string
		want apt.Architecture
	}{
		{"x86_64", apt.ArchAmd64},
		{"x86", apt.ArchI386},
		{"armv8", apt.ArchArm64},
		{"arm64", apt.ArchArm64},
		{"all", apt.ArchAll},
	}
	for _, tt := range tests {
		got, err := debArch(tt.in)
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}

	_, err := debArch("sparc")
	require.Error(t, err)
}

func TestPackageNarXz(t *testing.T) {
	archives, err := NewPackager(&Config{OutputDir: t.TempDir()}).Package(newPackageDir(t), meta, []string{FormatNarXz})
	require.NoError(t, err)

	f, err := os.Open(archives[0])
	require.NoError(t, err)
	defer f.Close()
	xr, err := xz.NewReader(f)
	require.NoError(t, err)

	var paths []string
	nr := nar.NewReader(xr)
	for {
		hdr, err := nr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		paths = append(paths, hdr.Path)
	}
	require.Contains(t, paths, "bin/heaptrack")
	require.Contains(t, paths, "lib/libheaptrack_inject.so")
}

func TestPackageUnknownFormatWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dist")

	_, err := NewPackager(&Config{OutputDir: out}).Package(newPackageDir(t), meta, []string{FormatTarXz, "rpm"})
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestPackageMissingDir(t *testing.T) {
	_, err := NewPackager(&Config{OutputDir: t.TempDir()}).Package(filepath.Join(t.TempDir(), "none"), meta, []string{FormatTarXz})
	require.Error(t, err)
}
