// pkg/backend/apt.go
package backend

import (
	"context"

	"github.com/arc-language/urecipe/pkg/apt"
)

// AptBackend implements the Backend interface for Debian and Ubuntu
type AptBackend struct {
	manager *apt.PackageManager
	config  *Config
}

// NewAptBackend creates a new APT backend
func NewAptBackend(config *Config) *AptBackend {
	logger := config.logger("APT")

	aptConfig := &apt.Config{
		Runner:        config.runner(logger),
		UseSudo:       config.UseSudo,
		SkipInstalled: true,
		NoRecommends:  true,
		Debug:         config.Debug,
		Logger:        logger,
	}

	return &AptBackend{
		manager: apt.NewPackageManager(aptConfig),
		config:  config,
	}
}

// Update runs apt-get update
func (b *AptBackend) Update(ctx context.Context) error {
	return b.manager.Update(ctx)
}

// Install runs apt-get install for the packages that are not yet installed
func (b *AptBackend) Install(ctx context.Context, names []string) error {
	return b.manager.Install(ctx, names)
}

// Qualify adds the multiarch ":i386" qualifier for 32-bit x86.
// Other architectures are left unqualified.
func (b *AptBackend) Qualify(names []string, arch string) []string {
	if arch != "x86" {
		return append([]string(nil), names...)
	}
	return apt.Qualify(names, apt.ArchI386)
}

// Name returns the backend name
func (b *AptBackend) Name() string {
	return string(BackendApt)
}
