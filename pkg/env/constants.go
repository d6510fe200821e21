// pkg/env/constants.go
package env

import (
	"path/filepath"
)

// Layout names accepted by GetPackageLayout
const (
	LayoutFlat   = "flat"
	LayoutDebian = "debian"
	LayoutFHS    = "fhs"
)

// DefaultLayout is the layout of a package built into its own prefix:
// include/, lib/, bin/ directly under the root.
var DefaultLayout = GetPackageLayout(LayoutFlat)

// GetPackageLayout returns the directory structure of a named layout.
// Unknown names get the flat layout.
func GetPackageLayout(name string) PackageLayout {
	switch name {
	case LayoutDebian:
		return getDebianLayout()
	case LayoutFHS:
		return getFHSLayout()
	default:
		return getFlatLayout()
	}
}

func getFlatLayout() PackageLayout {
	return PackageLayout{
		Libraries: []string{"lib"},
		Includes:  []string{"include"},
		Binaries:  []string{"bin"},
	}
}

// Debian multiarch trees keep libraries under usr/lib/<triplet>
func getDebianLayout() PackageLayout {
	return PackageLayout{
		Libraries: []string{
			filepath.Join("usr", "lib", "x86_64-linux-gnu"),
			filepath.Join("usr", "lib", "i386-linux-gnu"),
			filepath.Join("usr", "lib"),
		},
		Includes: []string{
			filepath.Join("usr", "include"),
		},
		Binaries: []string{
			filepath.Join("usr", "bin"),
		},
	}
}

func getFHSLayout() PackageLayout {
	return PackageLayout{
		Libraries: []string{
			filepath.Join("usr", "lib64"),
			filepath.Join("usr", "lib"),
		},
		Includes: []string{
			filepath.Join("usr", "include"),
		},
		Binaries: []string{
			filepath.Join("usr", "bin"),
		},
	}
}

// GetLibraryExtensions returns file extensions to look for on targetOS
func GetLibraryExtensions(targetOS string) []string {
	return append(GetSharedLibraryExtensions(targetOS), GetStaticLibraryExtensions(targetOS)...)
}

// GetSharedLibraryExtensions returns only shared library extensions
func GetSharedLibraryExtensions(targetOS string) []string {
	switch targetOS {
	case "darwin":
		return []string{".dylib"}
	case "windows":
		return []string{".dll"}
	default:
		return []string{".so"}
	}
}

// GetStaticLibraryExtensions returns only static library extensions
func GetStaticLibraryExtensions(targetOS string) []string {
	switch targetOS {
	case "windows":
		return []string{".lib"} // Can be import lib or static lib
	default:
		return []string{".a"}
	}
}

// SharedLibraryName returns the file name a linker resolves -l<name> to on
// targetOS: libz.so, libz.dylib, z.lib (the import library on windows).
func SharedLibraryName(targetOS, name string) string {
	switch targetOS {
	case "darwin":
		return "lib" + name + ".dylib"
	case "windows":
		return name + ".lib"
	default:
		return "lib" + name + ".so"
	}
}
