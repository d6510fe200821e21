// pkg/registry/registry.go
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/arc-language/urecipe/pkg/core"
	"github.com/arc-language/urecipe/pkg/env"
	"github.com/spf13/afero"
)

// ErrVersionMismatch indicates a registry entry whose version does not
// match a pinned requirement
var ErrVersionMismatch = errors.New("version mismatch")

// Entry represents a single <name>/index.toml file
type Entry struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	RootPath    string   `toml:"rootpath"`
	Layout      string   `toml:"layout"`
	IncludeDirs []string `toml:"includedirs"`
	LibDirs     []string `toml:"libdirs"`
	BinDirs     []string `toml:"bindirs"`
	ResDirs     []string `toml:"resdirs"`
}

// Registry provides lookup into a directory of built dependencies
type Registry struct {
	fs      afero.Fs
	depsDir string
}

// New creates a Registry pointed at depsDir on the local filesystem
func New(depsDir string) *Registry {
	return NewFS(afero.NewOsFs(), depsDir)
}

// NewFS creates a Registry reading depsDir from fsys
func NewFS(fsys afero.Fs, depsDir string) *Registry {
	return &Registry{fs: fsys, depsDir: depsDir}
}

// Dir returns the registry directory
func (r *Registry) Dir() string {
	return r.depsDir
}

// Resolve implements core.Resolver
func (r *Registry) Resolve(_ context.Context, req core.Requirement) (*core.Package, error) {
	entry, err := r.Load(req.Name)
	if err != nil {
		return nil, err
	}

	if pinned(req.Constraint) && entry.Version != "" && entry.Version != req.Constraint {
		return nil, fmt.Errorf("registry: %w: %s is %s, want %s", ErrVersionMismatch, req.Name, entry.Version, req.Constraint)
	}

	pkg := entry.Package(r.entryDir(req.Name))
	return &pkg, nil
}

// Load reads and parses <dir>/<name>/index.toml.
// Lookup falls back to a case-insensitive match of the directory name.
func (r *Registry) Load(name string) (*Entry, error) {
	if ok, _ := afero.DirExists(r.fs, r.depsDir); !ok {
		return nil, fmt.Errorf("registry: %w: %s does not exist", core.ErrNotResolved, r.depsDir)
	}

	dir := r.entryDir(name)
	path := filepath.Join(dir, "index.toml")

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		// Check if the directory exists, to give a better error message.
		if ok, _ := afero.DirExists(r.fs, dir); ok {
			return nil, fmt.Errorf("registry: %w: found package '%s' directory, but missing index.toml", core.ErrNotResolved, name)
		}
		return nil, fmt.Errorf("registry: %w: package '%s' not found", core.ErrNotResolved, name)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s': %w", name, err)
	}
	if entry.Name == "" {
		entry.Name = filepath.Base(dir)
	}

	return &entry, nil
}

// List returns the names of every entry in the registry
func (r *Registry) List() ([]string, error) {
	infos, err := afero.ReadDir(r.fs, r.depsDir)
	if err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	var names []string
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		if ok, _ := afero.Exists(r.fs, filepath.Join(r.depsDir, info.Name(), "index.toml")); ok {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

// Save writes entry to <dir>/<name>/index.toml
func (r *Registry) Save(entry Entry) error {
	dir := filepath.Join(r.depsDir, entry.Name)
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("registry: %w", err)
	}

	f, err := r.fs.OpenFile(filepath.Join(dir, "index.toml"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(entry); err != nil {
		return fmt.Errorf("registry: encoding '%s': %w", entry.Name, err)
	}
	return nil
}

func (r *Registry) entryDir(name string) string {
	exact := filepath.Join(r.depsDir, name)
	if ok, _ := afero.DirExists(r.fs, exact); ok {
		return exact
	}
	infos, err := afero.ReadDir(r.fs, r.depsDir)
	if err != nil {
		return exact
	}
	for _, info := range infos {
		if info.IsDir() && strings.EqualFold(info.Name(), name) {
			return filepath.Join(r.depsDir, info.Name())
		}
	}
	return exact
}

// Package converts the entry into a dependency package. A relative
// rootpath is taken relative to entryDir; an empty one is entryDir itself.
// Directory lists left out of the entry come from its layout.
func (e Entry) Package(entryDir string) core.Package {
	root := e.RootPath
	switch {
	case root == "":
		root = entryDir
	case !filepath.IsAbs(root):
		root = filepath.Join(entryDir, root)
	}

	layout := env.GetPackageLayout(e.Layout)
	pick := func(dirs, fallback []string) []string {
		if dirs != nil {
			return append([]string(nil), dirs...)
		}
		return append([]string(nil), fallback...)
	}

	return core.Package{
		Name:        e.Name,
		Version:     e.Version,
		RootPath:    filepath.Clean(root),
		IncludeDirs: pick(e.IncludeDirs, layout.Includes),
		LibDirs:     pick(e.LibDirs, layout.Libraries),
		BinDirs:     pick(e.BinDirs, layout.Binaries),
		ResDirs:     pick(e.ResDirs, layout.Resources),
	}
}

// pinned reports whether constraint names one exact version
func pinned(constraint string) bool {
	return constraint != "" && !strings.ContainsAny(constraint, "<>=~^*, []")
}
