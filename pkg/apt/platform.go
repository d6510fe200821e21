// pkg/apt/platform.go
package apt

import (
	"fmt"
	"strings"
)

// Architecture represents a Debian architecture
type Architecture string

const (
	// Common architectures
	ArchAmd64   Architecture = "amd64"   // x86_64
	ArchI386    Architecture = "i386"    // x86 32-bit
	ArchArm64   Architecture = "arm64"   // ARM 64-bit
	ArchArmhf   Architecture = "armhf"   // ARM hard float
	ArchPpc64el Architecture = "ppc64el" // PowerPC 64-bit little endian
	ArchS390x   Architecture = "s390x"   // IBM S/390
	ArchRiscv64 Architecture = "riscv64" // RISC-V 64-bit
	ArchAll     Architecture = "all"     // Architecture-independent
)

// AllArchitectures contains all supported Debian architectures
var AllArchitectures = []Architecture{
	ArchAmd64,
	ArchI386,
	ArchArm64,
	ArchArmhf,
	ArchPpc64el,
	ArchS390x,
	ArchRiscv64,
	ArchAll,
}

// FromHostArch maps a recipe architecture name (x86, x86_64, armv8, ...)
// to the Debian architecture name
func FromHostArch(arch string) (Architecture, error) {
	switch arch {
	case "x86_64":
		return ArchAmd64, nil
	case "x86":
		return ArchI386, nil
	case "armv8":
		return ArchArm64, nil
	case "armv7":
		return ArchArmhf, nil
	case "ppc64le":
		return ArchPpc64el, nil
	case "s390x":
		return ArchS390x, nil
	case "riscv64":
		return ArchRiscv64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

// String returns the string representation of the architecture
func (a Architecture) String() string {
	return string(a)
}

// IsValid checks if the architecture is valid
func (a Architecture) IsValid() bool {
	for _, valid := range AllArchitectures {
		if a == valid {
			return true
		}
	}
	return false
}

// Qualify appends the multiarch qualifier ":<arch>" to every name.
// Names that already carry a qualifier are left alone.
func Qualify(names []string, arch Architecture) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.Contains(n, ":") {
			out = append(out, n)
			continue
		}
		out = append(out, n+":"+string(arch))
	}
	return out
}
