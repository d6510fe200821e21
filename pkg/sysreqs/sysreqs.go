// pkg/sysreqs/sysreqs.go
package sysreqs

import (
	"context"
	"io"
	"os"

	"github.com/arc-language/urecipe/pkg/backend"
	"github.com/arc-language/urecipe/pkg/platform"
	"github.com/charmbracelet/log"
)

// Outcome is the result of the system package step. The step never fails:
// a problem installing packages is reported through Warning.
type Outcome struct {
	Backend  string   // Package manager used, empty when skipped
	Packages []string // Names handed to the package manager
	Skipped  bool     // True when there was nothing to do for this host
	Warning  error    // Non-nil when update or install failed
}

// OK reports whether the step finished without a warning
func (o Outcome) OK() bool {
	return o.Warning == nil
}

// Lists holds the host packages a recipe needs, keyed by os-release ID
// (e.g. "ubuntu" -> libdwarf-dev, ...)
type Lists struct {
	Distros map[string][]string

	// MatchLike also applies a list to distributions naming its ID in
	// ID_LIKE (e.g. linuxmint for "ubuntu")
	MatchLike bool
}

// For returns the list for h's distribution, nil when there is none
func (l Lists) For(h platform.Host) []string {
	if !h.IsLinux() || h.Distro == "" {
		return nil
	}
	if names, ok := l.Distros[h.Distro]; ok {
		return names
	}
	if l.MatchLike {
		for _, like := range h.Like {
			if names, ok := l.Distros[like]; ok {
				return names
			}
		}
	}
	return nil
}

// Packages returns the package names to install on h, already qualified
// for the host architecture. It is empty when h is not Linux, its
// distribution is unknown, or the recipe lists nothing for it.
func Packages(h platform.Host, lists Lists) []string {
	name, ok := platform.ResolveBackend(h)
	if !ok {
		return nil
	}
	names := lists.For(h)
	if len(names) == 0 {
		return nil
	}

	b, err := backend.New(backend.BackendType(name), &backend.Config{Logger: log.New(io.Discard)})
	if err != nil {
		return nil
	}
	return b.Qualify(names, h.Arch)
}

// Config configures an Installer
type Config struct {
	UseSudo bool
	Debug   bool
	Logger  *log.Logger

	// NewBackend builds the backend for a host; backend.New when nil
	NewBackend func(name backend.BackendType, cfg *backend.Config) (backend.Backend, error)

	// Backend config handed to NewBackend (runner, logger)
	BackendConfig backend.Config
}

// Installer installs the system packages a recipe needs
type Installer struct {
	config *Config
	logger *log.Logger
}

// NewInstaller creates an Installer
func NewInstaller(cfg *Config) *Installer {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "SYSREQS", Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	return &Installer{config: cfg, logger: logger}
}

// Install refreshes the package index and installs the recipe's packages
// for h. Failures are downgraded to Outcome.Warning and logged.
func (in *Installer) Install(ctx context.Context, h platform.Host, lists Lists) Outcome {
	name, ok := platform.ResolveBackend(h)
	if !ok {
		in.logger.Debug("No known package manager for host, skipping", "host", h.String())
		return Outcome{Skipped: true}
	}

	newBackend := in.config.NewBackend
	if newBackend == nil {
		newBackend = backend.New
	}
	bcfg := in.config.BackendConfig
	bcfg.UseSudo = in.config.UseSudo
	if bcfg.Logger == nil {
		bcfg.Logger = in.logger
	}

	b, err := newBackend(backend.BackendType(name), &bcfg)
	if err != nil {
		in.logger.Warnf("System packages not installed: %v", err)
		return Outcome{Backend: name, Warning: err}
	}

	packages := b.Qualify(lists.For(h), h.Arch)
	out := Outcome{Backend: name, Packages: packages}
	if len(packages) == 0 {
		in.logger.Debug("Recipe lists no packages for distribution, skipping", "distro", h.Distro)
		out.Skipped = true
		return out
	}

	in.logger.Debug("Installing system packages", "backend", name, "count", len(packages))
	if err := b.Update(ctx); err != nil {
		in.logger.Warnf("Could not refresh package index: %v", err)
		out.Warning = err
		return out
	}
	if err := b.Install(ctx, packages); err != nil {
		in.logger.Warnf("Could not install system packages: %v", err)
		out.Warning = err
		return out
	}
	in.logger.Debug("  ✓ System packages installed")
	return out
}
