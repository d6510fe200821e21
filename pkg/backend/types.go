// pkg/backend/types.go
package backend

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/charmbracelet/log"
)

// BackendType represents the system package manager backend
type BackendType string

const (
	// BackendApt uses the Debian/Ubuntu package manager
	BackendApt BackendType = "apt"
	// BackendDnf uses the Fedora/RHEL package manager
	BackendDnf BackendType = "dnf"
	// BackendPacman uses the Arch Linux package manager
	BackendPacman BackendType = "pacman"
	// BackendZypper uses the openSUSE package manager
	BackendZypper BackendType = "zypper"
	// BackendApk uses the Alpine package manager
	BackendApk BackendType = "apk"
)

// Backend defines the interface that all system package manager backends must implement
type Backend interface {
	// Update refreshes the package index
	Update(ctx context.Context) error

	// Install installs the named packages
	Install(ctx context.Context, names []string) error

	// Qualify returns names adjusted for a foreign architecture
	// (multiarch suffixes and the like). arch uses recipe naming.
	Qualify(names []string, arch string) []string

	// Name returns the name of the backend
	Name() string
}

// Config holds configuration shared by all backends
type Config struct {
	// Runner executes the package manager commands
	Runner shell.Runner

	// UseSudo prefixes privileged commands with sudo
	UseSudo bool

	// Debug enables debug logging
	Debug bool

	// Logger for custom logging
	Logger *log.Logger
}

// New creates the backend registered under name
func New(name BackendType, config *Config) (Backend, error) {
	if config == nil {
		config = &Config{}
	}

	switch name {
	case BackendApt:
		return NewAptBackend(config), nil
	case BackendDnf:
		return NewDnfBackend(config), nil
	case BackendPacman:
		return NewPacmanBackend(config), nil
	case BackendZypper:
		return NewZypperBackend(config), nil
	case BackendApk:
		return NewApkBackend(config), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", name)
	}
}

func (c *Config) logger(prefix string) *log.Logger {
	if c.Logger != nil {
		return c.Logger.WithPrefix(prefix)
	}
	if c.Debug {
		return log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix, Level: log.DebugLevel})
	}
	return log.New(io.Discard)
}

func (c *Config) runner(logger *log.Logger) shell.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return shell.ExecRunner{Logger: logger}
}
