// pkg/core/package.go
package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Package is an already-built dependency as reported by the package manager
// that resolved it. Directory lists may be relative to RootPath.
type Package struct {
	Name        string   // Package name (e.g., "zlib")
	Version     string   // Resolved version
	RootPath    string   // Installation root
	IncludeDirs []string // Header directories
	LibDirs     []string // Library directories
	BinDirs     []string // Executable directories
	ResDirs     []string // Resource directories (CMake package configs and the like)
}

// Abs resolves dir against the package root. Absolute dirs are returned cleaned.
func (p Package) Abs(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(p.RootPath, dir)
}

// IncludePaths returns the absolute include directories
func (p Package) IncludePaths() []string { return p.abs(p.IncludeDirs) }

// LibPaths returns the absolute library directories
func (p Package) LibPaths() []string { return p.abs(p.LibDirs) }

// ResPaths returns the absolute resource directories
func (p Package) ResPaths() []string { return p.abs(p.ResDirs) }

func (p Package) abs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, p.Abs(d))
	}
	return out
}

// String returns name/version
func (p Package) String() string {
	return fmt.Sprintf("%s/%s", p.Name, p.Version)
}

// Requirement is a declared dependency of a recipe
type Requirement struct {
	Name       string // Package name as known to the resolver
	Constraint string // Version or version range (e.g., ">=1.58")
	Channel    string // user/channel (e.g., "ntc/stable")
	Note       string // Why this requirement exists, if not obvious
}

// String renders the reference in name/version@user/channel form
func (r Requirement) String() string {
	version := r.Constraint
	if strings.ContainsAny(version, "<>=~^ ") {
		version = "[" + version + "]"
	}
	ref := r.Name
	if version != "" {
		ref += "/" + version
	}
	if r.Channel != "" {
		ref += "@" + r.Channel
	}
	return ref
}
