package buildconf

import (
	"testing"

	"github.com/arc-language/urecipe/pkg/core"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func resolvedFixture() map[string]core.Package {
	return map[string]core.Package{
		"zlib":     {Name: "zlib", RootPath: "/opt/zlib", IncludeDirs: []string{"include"}},
		"bzip2":    {Name: "bzip2", RootPath: "/opt/bzip2", IncludeDirs: []string{"include"}},
		"boost":    {Name: "boost", RootPath: "/opt/boost"},
		"OpenSSL":  {Name: "OpenSSL", RootPath: "/opt/openssl"},
		"qt":       {Name: "qt", RootPath: "/opt/qt"},
		"kdiagram": {Name: "kdiagram", RootPath: "/opt/kdiagram", ResDirs: []string{"/opt/kdiagram/KChart", "/opt/kdiagram/KGantt"}},
	}
}

func TestDeriveExactMapping(t *testing.T) {
	d, err := Derive(DefaultConfig(), resolvedFixture())
	require.NoError(t, err)

	want := []Entry{
		{"ZLIB_INCLUDE_DIR", TypePath, "/opt/zlib/include"},
		{"ZLIB_LIBRARY_RELEASE", TypeFilePath, "/opt/zlib/lib/libz.so"},
		{"BZIP2_INCLUDE_DIR", TypePath, "/opt/bzip2/include"},
		{"BZIP2_LIBRARY_RELEASE", TypeFilePath, "/opt/bzip2/lib/libbz2.so"},
		{"BOOST_ROOT", TypePath, "/opt/boost"},
		{"OPENSSL_ROOT_DIR", TypePath, "/opt/openssl"},
		{"Qt5Core_DIR", TypePath, "/opt/qt/lib/cmake/Qt5Core"},
		{"Qt5Gui_DIR", TypePath, "/opt/qt/lib/cmake/Qt5Gui"},
		{"Qt5Widgets_DIR", TypePath, "/opt/qt/lib/cmake/Qt5Widgets"},
		{"KChart_DIR", TypeNone, "/opt/kdiagram/KChart"},
		{"KGantt_DIR", TypeNone, "/opt/kdiagram/KGantt"},
	}
	if diff := cmp.Diff(want, d.Mapping().Entries()); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestDeriveIsDeterministic(t *testing.T) {
	a, err := Derive(DefaultConfig(), resolvedFixture())
	require.NoError(t, err)
	b, err := Derive(DefaultConfig(), resolvedFixture())
	require.NoError(t, err)

	require.Empty(t, cmp.Diff(a, b))
	require.Equal(t, a.Mapping().Args(), b.Mapping().Args())
}

func TestDeriveRelativeResDirs(t *testing.T) {
	resolved := resolvedFixture()
	kd := resolved["kdiagram"]
	kd.ResDirs = []string{"lib/cmake/KChart"}
	resolved["kdiagram"] = kd

	d, err := Derive(DefaultConfig(), resolved)
	require.NoError(t, err)

	v, ok := d.Mapping().Get("KChart_DIR")
	require.True(t, ok)
	require.Equal(t, "/opt/kdiagram/lib/cmake/KChart", v)
}

func TestDeriveNoResDirsNoEntries(t *testing.T) {
	resolved := resolvedFixture()
	kd := resolved["kdiagram"]
	kd.ResDirs = nil
	resolved["kdiagram"] = kd

	d, err := Derive(DefaultConfig(), resolved)
	require.NoError(t, err)
	require.Empty(t, d.Diagram)
	require.Equal(t, 9, d.Mapping().Len())
}

func TestDeriveMissingDependency(t *testing.T) {
	resolved := resolvedFixture()
	delete(resolved, "qt")

	_, err := Derive(DefaultConfig(), resolved)
	require.ErrorIs(t, err, ErrMissingDependency)
}

func TestDeriveZlibWithoutIncludeDirs(t *testing.T) {
	resolved := resolvedFixture()
	z := resolved["zlib"]
	z.IncludeDirs = nil
	resolved["zlib"] = z

	_, err := Derive(DefaultConfig(), resolved)
	require.ErrorIs(t, err, ErrIncompleteDependency)
}

func TestDeriveUnusedDependencySkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bzip2 = ""
	resolved := resolvedFixture()
	delete(resolved, "bzip2")

	d, err := Derive(cfg, resolved)
	require.NoError(t, err)
	_, ok := d.Mapping().Get("BZIP2_INCLUDE_DIR")
	require.False(t, ok)
}

func TestDeriveCaseInsensitiveLookup(t *testing.T) {
	resolved := resolvedFixture()
	delete(resolved, "OpenSSL")
	resolved["openssl"] = core.Package{Name: "openssl", RootPath: "/usr/local/ssl"}

	d, err := Derive(DefaultConfig(), resolved)
	require.NoError(t, err)
	require.Equal(t, "/usr/local/ssl", d.OpenSSLRoot)
}

func TestDeriveDarwinLibraryNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetOS = "darwin"

	d, err := Derive(cfg, resolvedFixture())
	require.NoError(t, err)
	require.Equal(t, "/opt/zlib/lib/libz.dylib", d.ZlibLibrary)
}

func TestMappingLastWriteWins(t *testing.T) {
	m := NewMapping()
	m.Set("A", TypePath, "/one")
	m.Set("B", TypeNone, "/two")
	m.Set("A", TypeFilePath, "/three")

	require.Equal(t, []string{"A", "B"}, m.Keys())
	require.Equal(t, []string{"-DA:FILEPATH=/three", "-DB=/two"}, m.Args())
}

func TestMappingDescribe(t *testing.T) {
	m := NewMapping()
	m.Set("BOOST_ROOT", TypePath, "/opt/boost")
	m.Set("KChart_DIR", TypeNone, "/opt/kdiagram/KChart")

	require.Equal(t, "CMake Definitions:\n - BOOST_ROOT:PATH=/opt/boost\n - KChart_DIR=/opt/kdiagram/KChart\n", m.Describe())
}

func TestValidate(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/opt/boost", 0755))

	m := NewMapping()
	m.Set("BOOST_ROOT", TypePath, "/opt/boost")
	require.NoError(t, Validate(fsys, m))

	m.Set("QT", TypePath, "relative/qt")
	m.Set("ZLIB", TypeFilePath, "/opt/zlib/lib/libz.so")
	err := Validate(fsys, m)
	require.ErrorIs(t, err, ErrInvalidDefinition)
	require.Contains(t, err.Error(), "QT=relative/qt is not absolute")
	require.Contains(t, err.Error(), "ZLIB=/opt/zlib/lib/libz.so does not exist")
}
