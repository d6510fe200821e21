// pkg/buildconf/definitions.go
package buildconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arc-language/urecipe/pkg/core"
	"github.com/arc-language/urecipe/pkg/env"
)

var (
	// ErrMissingDependency indicates a configured dependency that was not resolved
	ErrMissingDependency = errors.New("missing dependency")

	// ErrIncompleteDependency indicates a resolved dependency lacking a path we need
	ErrIncompleteDependency = errors.New("incomplete dependency")
)

// Config names the dependencies definitions are derived from.
// An empty name means the recipe does not use that dependency.
type Config struct {
	TargetOS       string   // Selects library file naming (linux if empty)
	Zlib           string   // Compression library (include dir + library file)
	Bzip2          string   // Second compression library (include dir + library file)
	Boost          string   // General-purpose utility library (root)
	OpenSSL        string   // Cryptography library (root), overrides the toolkit's own
	Toolkit        string   // UI toolkit with CMake package submodules
	ToolkitPrefix  string   // Prefix of the toolkit's CMake packages (e.g., Qt5)
	ToolkitModules []string // Toolkit submodules (e.g., Core, Gui, Widgets)
	Diagram        string   // Library whose resource dirs are CMake package dirs
}

// DefaultConfig returns the dependency naming of the heaptrack recipe
func DefaultConfig() Config {
	return Config{
		TargetOS:       "linux",
		Zlib:           "zlib",
		Bzip2:          "bzip2",
		Boost:          "boost",
		OpenSSL:        "OpenSSL",
		Toolkit:        "qt",
		ToolkitPrefix:  "Qt5",
		ToolkitModules: []string{"Core", "Gui", "Widgets"},
		Diagram:        "kdiagram",
	}
}

// Module is a CMake package location (<Name>_DIR)
type Module struct {
	Name string
	Dir  string
}

// Definitions holds every path the build needs. Empty fields belong to
// dependencies the recipe does not use and are left out of the mapping.
type Definitions struct {
	ZlibIncludeDir  string
	ZlibLibrary     string
	Bzip2IncludeDir string
	Bzip2Library    string
	BoostRoot       string
	OpenSSLRoot     string
	Toolkit         []Module
	Diagram         []Module
}

// Derive computes the definitions for the resolved dependencies. It has no
// side effects and returns the same result for the same input.
func Derive(cfg Config, resolved map[string]core.Package) (*Definitions, error) {
	d := &Definitions{}
	targetOS := cfg.TargetOS
	if targetOS == "" {
		targetOS = "linux"
	}

	lookup := func(name string) (core.Package, bool, error) {
		if name == "" {
			return core.Package{}, false, nil
		}
		p, ok := find(resolved, name)
		if !ok {
			return core.Package{}, false, fmt.Errorf("%w: %s", ErrMissingDependency, name)
		}
		return p, true, nil
	}

	// compression libraries: first include dir and <root>/lib/<shared lib>
	compression := []struct {
		name    string
		lib     string
		include *string
		library *string
	}{
		{cfg.Zlib, "z", &d.ZlibIncludeDir, &d.ZlibLibrary},
		{cfg.Bzip2, "bz2", &d.Bzip2IncludeDir, &d.Bzip2Library},
	}
	for _, c := range compression {
		p, ok, err := lookup(c.name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if len(p.IncludeDirs) == 0 {
			return nil, fmt.Errorf("%w: %s has no include directories", ErrIncompleteDependency, c.name)
		}
		*c.include = p.Abs(p.IncludeDirs[0])
		*c.library = filepath.Join(p.RootPath, "lib", env.SharedLibraryName(targetOS, c.lib))
	}

	if p, ok, err := lookup(cfg.Boost); err != nil {
		return nil, err
	} else if ok {
		d.BoostRoot = p.RootPath
	}

	if p, ok, err := lookup(cfg.OpenSSL); err != nil {
		return nil, err
	} else if ok {
		d.OpenSSLRoot = p.RootPath
	}

	if p, ok, err := lookup(cfg.Toolkit); err != nil {
		return nil, err
	} else if ok {
		for _, sub := range cfg.ToolkitModules {
			name := cfg.ToolkitPrefix + sub
			d.Toolkit = append(d.Toolkit, Module{
				Name: name,
				Dir:  filepath.Join(p.RootPath, "lib", "cmake", name),
			})
		}
	}

	if p, ok, err := lookup(cfg.Diagram); err != nil {
		return nil, err
	} else if ok {
		for _, dir := range p.ResDirs {
			d.Diagram = append(d.Diagram, Module{
				Name: filepath.Base(dir),
				Dir:  p.Abs(dir),
			})
		}
	}

	return d, nil
}

// Mapping returns the definitions as an ordered mapping
func (d *Definitions) Mapping() *Mapping {
	m := NewMapping()
	set := func(key, typ, value string) {
		if value != "" {
			m.Set(key, typ, value)
		}
	}

	set("ZLIB_INCLUDE_DIR", TypePath, d.ZlibIncludeDir)
	set("ZLIB_LIBRARY_RELEASE", TypeFilePath, d.ZlibLibrary)
	set("BZIP2_INCLUDE_DIR", TypePath, d.Bzip2IncludeDir)
	set("BZIP2_LIBRARY_RELEASE", TypeFilePath, d.Bzip2Library)
	set("BOOST_ROOT", TypePath, d.BoostRoot)
	set("OPENSSL_ROOT_DIR", TypePath, d.OpenSSLRoot)
	for _, mod := range d.Toolkit {
		set(mod.Name+"_DIR", TypePath, mod.Dir)
	}
	for _, mod := range d.Diagram {
		set(mod.Name+"_DIR", TypeNone, mod.Dir)
	}

	return m
}

func find(resolved map[string]core.Package, name string) (core.Package, bool) {
	if p, ok := resolved[name]; ok {
		return p, true
	}
	for k, p := range resolved {
		if strings.EqualFold(k, name) {
			return p, true
		}
	}
	return core.Package{}, false
}
