// pkg/env/types.go
package env

// PackageLayout defines where files are located within an installed package.
// Paths are relative to the package root.
type PackageLayout struct {
	Libraries []string // Relative paths to library directories
	Includes  []string // Relative paths to include directories
	Binaries  []string // Relative paths to binary directories
	Resources []string // Relative paths to resource directories
}

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "z")
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib", ".dll", ".lib"
	IsStatic bool   // True for .a files
}
