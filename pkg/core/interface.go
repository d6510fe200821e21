// pkg/core/interface.go
package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotResolved indicates a requirement the resolver knows nothing about
var ErrNotResolved = errors.New("dependency not resolved")

// Resolver answers queries about dependencies that an external package
// manager has already resolved and built.
type Resolver interface {
	// Resolve returns the package satisfying req, or an error wrapping ErrNotResolved
	Resolve(ctx context.Context, req Requirement) (*Package, error)
}

// ResolveAll resolves every requirement, keyed by requirement name.
// It stops at the first failure.
func ResolveAll(ctx context.Context, r Resolver, reqs []Requirement) (map[string]Package, error) {
	resolved := make(map[string]Package, len(reqs))
	for _, req := range reqs {
		pkg, err := r.Resolve(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", req, err)
		}
		resolved[req.Name] = *pkg
	}
	return resolved, nil
}
