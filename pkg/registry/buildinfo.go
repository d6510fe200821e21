// pkg/registry/buildinfo.go
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/arc-language/urecipe/pkg/core"
	"github.com/spf13/afero"
)

// BuildInfo resolves dependencies from a build-info JSON file written by
// the package manager that installed them (conanbuildinfo.json shape)
type BuildInfo struct {
	Dependencies []BuildInfoDependency `json:"dependencies"`
}

// BuildInfoDependency is one resolved dependency in a build-info file
type BuildInfoDependency struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	RootPath     string   `json:"rootpath"`
	IncludePaths []string `json:"include_paths"`
	LibPaths     []string `json:"lib_paths"`
	BinPaths     []string `json:"bin_paths"`
	ResPaths     []string `json:"res_paths"`
}

// LoadBuildInfo reads a build-info file
func LoadBuildInfo(fsys afero.Fs, path string) (*BuildInfo, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("buildinfo: %w", err)
	}

	var info BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("buildinfo: parsing %s: %w", path, err)
	}
	return &info, nil
}

// Resolve implements core.Resolver. Names match case-insensitively.
func (b *BuildInfo) Resolve(_ context.Context, req core.Requirement) (*core.Package, error) {
	for _, d := range b.Dependencies {
		if !strings.EqualFold(d.Name, req.Name) {
			continue
		}
		return &core.Package{
			Name:        d.Name,
			Version:     d.Version,
			RootPath:    d.RootPath,
			IncludeDirs: d.IncludePaths,
			LibDirs:     d.LibPaths,
			BinDirs:     d.BinPaths,
			ResDirs:     d.ResPaths,
		}, nil
	}
	return nil, fmt.Errorf("buildinfo: %w: %s", core.ErrNotResolved, req.Name)
}

// Chain tries each resolver in order and returns the first hit.
// Errors other than core.ErrNotResolved stop the search.
type Chain []core.Resolver

// Resolve implements core.Resolver
func (c Chain) Resolve(ctx context.Context, req core.Requirement) (*core.Package, error) {
	var errs []string
	for _, r := range c {
		pkg, err := r.Resolve(ctx, req)
		if err == nil {
			return pkg, nil
		}
		if !isNotResolved(err) {
			return nil, err
		}
		errs = append(errs, err.Error())
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: %s (no resolvers configured)", core.ErrNotResolved, req.Name)
	}
	return nil, fmt.Errorf("%w: %s (%s)", core.ErrNotResolved, req.Name, strings.Join(errs, "; "))
}

func isNotResolved(err error) bool {
	return errors.Is(err, core.ErrNotResolved)
}
