// pkg/recipe/recipe.go
package recipe

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arc-language/urecipe/pkg/buildconf"
	"github.com/arc-language/urecipe/pkg/core"
	"github.com/arc-language/urecipe/pkg/sysreqs"
)

// Recipe describes how to fetch, build and deploy one external project
type Recipe struct {
	Name        string
	Version     string
	License     string
	URL         string // Recipe home page
	Description string

	Repository string // Git URL of the project sources
	TagFormat  string // fmt verb applied to Version to get the tag (e.g., "v%s")

	Requires []core.Requirement

	// Options set on dependencies, keyed by dependency name
	Options map[string]map[string]string

	// SystemPackages lists host packages per distribution
	SystemPackages sysreqs.Lists

	// Build names the dependencies build definitions are derived from
	Build buildconf.Config
}

// Tag returns the git tag holding the sources of this version
func (r Recipe) Tag() string {
	format := r.TagFormat
	if format == "" {
		format = "v%s"
	}
	return fmt.Sprintf(format, r.Version)
}

// SourceDir returns where the sources are checked out under workDir
func (r Recipe) SourceDir(workDir string) string {
	return filepath.Join(workDir, r.Name)
}

// Reference returns name/version
func (r Recipe) Reference() string {
	return r.Name + "/" + r.Version
}

// Option returns a dependency option, empty if unset
func (r Recipe) Option(dep, key string) string {
	return r.Options[dep][key]
}

// DependencyOptions renders the options set on dep as sorted key=value pairs
func (r Recipe) DependencyOptions(dep string) []string {
	opts := r.Options[dep]
	if len(opts) == 0 {
		for name, o := range r.Options {
			if strings.EqualFold(name, dep) {
				opts = o
				break
			}
		}
	}

	out := make([]string, 0, len(opts))
	for k, v := range opts {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Heaptrack returns the heaptrack recipe
func Heaptrack() Recipe {
	return Recipe{
		Name:        "heaptrack",
		Version:     "1.1.0",
		URL:         "https://github.com/kheaactua/conan-heaptrack",
		Description: "A heap memory profiler for Linux",
		Repository:  "https://github.com/KDE/heaptrack.git",
		TagFormat:   "v%s",
		Requires: []core.Requirement{
			{Name: "kdiagram", Constraint: "2.6.1", Channel: "ntc/stable"},
			{Name: "boost", Constraint: ">=1.58", Channel: "ntc/stable"},
			{Name: "zlib", Constraint: ">=1.2", Channel: "conan/stable"},
			{Name: "bzip2", Constraint: "1.0.6", Channel: "ntc/stable"},
			{Name: "OpenSSL", Constraint: "1.0.2n", Channel: "conan/stable", Note: "overrides Qt's OpenSSL, ABI and API incompatibility"},
			{Name: "qt", Constraint: ">5.6", Channel: "ntc/stable"},
		},
		Options: map[string]map[string]string{
			"qt": {"openssl": "yes"},
		},
		SystemPackages: sysreqs.Lists{
			Distros: map[string][]string{
				"ubuntu": {
					"libdwarf-dev", "libkf5coreaddons-dev", "libkf5i18n-dev",
					"libkf5itemmodels-dev", "libkf5threadweaver-dev",
					"libkf5configwidgets-dev", "libkf5kiocore5",
					"libkf5kiowidgets5", "kio-dev", "libsparsehash-dev",
					"libqt5svg5-dev", "extra-cmake-modules",
				},
			},
		},
		Build: buildconf.DefaultConfig(),
	}
}

var builtin = map[string]func() Recipe{
	"heaptrack": Heaptrack,
}

// Lookup returns the built-in recipe called name
func Lookup(name string) (Recipe, error) {
	fn, ok := builtin[strings.ToLower(name)]
	if !ok {
		return Recipe{}, fmt.Errorf("unknown recipe: %s", name)
	}
	return fn(), nil
}

// Names returns the built-in recipe names, sorted
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
