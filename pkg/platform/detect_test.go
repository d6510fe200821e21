package platform

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestParseOSRelease(t *testing.T) {
	content := `# comment
NAME="Ubuntu"
ID=ubuntu
ID_LIKE=debian
VERSION_ID="22.04"
`
	fields := ParseOSRelease(strings.NewReader(content))
	require.Equal(t, "ubuntu", fields["ID"])
	require.Equal(t, "debian", fields["ID_LIKE"])
	require.Equal(t, "22.04", fields["VERSION_ID"])
	require.Equal(t, "Ubuntu", fields["NAME"])
}

func TestDetectFSUbuntu(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/os-release", []byte("ID=ubuntu\nID_LIKE=debian\n"), 0644))

	h := DetectFS(fsys, "linux", "386")
	require.Equal(t, Host{OS: "linux", Distro: "ubuntu", Like: []string{"debian"}, Arch: ArchX86}, h)
	require.True(t, h.Is32BitX86())
}

func TestDetectFSFallsBackToMarkers(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/alpine-release", []byte("3.19.0\n"), 0644))

	h := DetectFS(fsys, "linux", "amd64")
	require.Equal(t, "alpine", h.Distro)
}

func TestDetectFSUnknownDistro(t *testing.T) {
	h := DetectFS(afero.NewMemMapFs(), "linux", "arm64")
	require.Empty(t, h.Distro)
	require.Equal(t, ArchArmv8, h.Arch)
}

func TestDetectFSNonLinuxSkipsOSRelease(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/os-release", []byte("ID=ubuntu\n"), 0644))

	h := DetectFS(fsys, "darwin", "arm64")
	require.Empty(t, h.Distro)
	require.False(t, h.IsLinux())
}

func TestDetectFSUnmappedArchIsKept(t *testing.T) {
	h := DetectFS(afero.NewMemMapFs(), "linux", "loong64")
	require.Equal(t, "loong64", h.Arch)

	x := h.WithTarget("", ArchX86_64)
	require.Equal(t, ArchX86_64, x.Arch)

	_, err := ArchFromGOARCH("loong64")
	require.Error(t, err)
}

func TestDetectFSMarkersInOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/SuSE-release", nil, 0644))
	require.NoError(t, afero.WriteFile(fsys, "/etc/fedora-release", nil, 0644))
	require.NoError(t, afero.WriteFile(fsys, "/etc/arch-release", nil, 0644))

	for i := 0; i < 20; i++ {
		require.Equal(t, "arch", DetectFS(fsys, "linux", "amd64").Distro)
	}
}

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		host Host
		want string
		ok   bool
	}{
		{Host{OS: "linux", Distro: "ubuntu"}, "apt", true},
		{Host{OS: "linux", Distro: "pop", Like: []string{"ubuntu", "debian"}}, "apt", true},
		{Host{OS: "linux", Distro: "fedora"}, "dnf", true},
		{Host{OS: "linux", Distro: "gentoo"}, "", false},
		{Host{OS: "darwin", Distro: "ubuntu"}, "", false},
	}
	for _, tt := range tests {
		got, ok := ResolveBackend(tt.host)
		require.Equal(t, tt.ok, ok, tt.host.String())
		require.Equal(t, tt.want, got, tt.host.String())
	}
}

func TestWithTargetCopies(t *testing.T) {
	h := Host{OS: "linux", Distro: "ubuntu", Like: []string{"debian"}, Arch: ArchX86_64}
	x := h.WithTarget("", ArchX86)

	require.Equal(t, ArchX86, x.Arch)
	require.Equal(t, "linux", x.OS)
	require.Equal(t, ArchX86_64, h.Arch)
}
