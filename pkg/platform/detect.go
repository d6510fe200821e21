// pkg/platform/detect.go
package platform

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// Host describes the machine a recipe runs on
type Host struct {
	OS     string   // linux, darwin, windows
	Distro string   // os-release ID (ubuntu, fedora, ...), empty if unknown
	Like   []string // os-release ID_LIKE entries
	Arch   string   // x86, x86_64, armv7, armv8, ...
}

// osReleaseFiles are tried in order, as systemd documents
var osReleaseFiles = []string{"/etc/os-release", "/usr/lib/os-release"}

// releaseMarkers identify distributions that predate os-release, tried in order
var releaseMarkers = []struct {
	path   string
	distro string
}{
	{"/etc/arch-release", "arch"},
	{"/etc/alpine-release", "alpine"},
	{"/etc/fedora-release", "fedora"},
	{"/etc/SuSE-release", "opensuse"},
}

// Detect detects the current host
func Detect() Host {
	return DetectFS(afero.NewOsFs(), runtime.GOOS, runtime.GOARCH)
}

// DetectFS detects a host described by goos/goarch whose root filesystem is fsys.
// An architecture without a recipe name is kept as goarch.
func DetectFS(fsys afero.Fs, goos, goarch string) Host {
	arch, err := ArchFromGOARCH(goarch)
	if err != nil {
		arch = goarch
	}

	h := Host{
		OS:   goos,
		Arch: arch,
	}

	if goos != "linux" {
		return h
	}

	for _, path := range osReleaseFiles {
		f, err := fsys.Open(path)
		if err != nil {
			continue
		}
		fields := ParseOSRelease(f)
		f.Close()

		h.Distro = strings.ToLower(fields["ID"])
		if like := fields["ID_LIKE"]; like != "" {
			h.Like = strings.Fields(strings.ToLower(like))
		}
		return h
	}

	for _, m := range releaseMarkers {
		if ok, _ := afero.Exists(fsys, m.path); ok {
			h.Distro = m.distro
			break
		}
	}

	return h
}

// ParseOSRelease parses KEY=value lines as found in /etc/os-release
func ParseOSRelease(r io.Reader) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}
	return fields
}

// ArchFromGOARCH maps a Go architecture to the recipe arch naming
func ArchFromGOARCH(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return ArchX86_64, nil
	case "386":
		return ArchX86, nil
	case "arm64":
		return ArchArmv8, nil
	case "arm":
		return ArchArmv7, nil
	case "ppc64le":
		return ArchPpc64le, nil
	case "s390x":
		return ArchS390x, nil
	case "riscv64":
		return ArchRiscv64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
}

// Recipe architecture names
const (
	ArchX86     = "x86"
	ArchX86_64  = "x86_64"
	ArchArmv7   = "armv7"
	ArchArmv8   = "armv8"
	ArchPpc64le = "ppc64le"
	ArchS390x   = "s390x"
	ArchRiscv64 = "riscv64"
)

// IsLinux reports whether the host runs Linux
func (h Host) IsLinux() bool {
	return strings.EqualFold(h.OS, "linux")
}

// Is32BitX86 reports whether the target is 32-bit x86
func (h Host) Is32BitX86() bool {
	return h.Arch == ArchX86
}

// WithTarget returns a copy whose OS and arch are replaced when non-empty
func (h Host) WithTarget(os, arch string) Host {
	out := h
	out.Like = append([]string(nil), h.Like...)
	if os != "" {
		out.OS = strings.ToLower(os)
	}
	if arch != "" {
		out.Arch = arch
	}
	return out
}

// String returns a string representation of the host
func (h Host) String() string {
	distro := h.Distro
	if distro == "" {
		distro = "unknown"
	}
	return fmt.Sprintf("%s/%s (distro: %s)", h.OS, h.Arch, distro)
}
