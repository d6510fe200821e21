// pkg/deploy/deploy.go
package deploy

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/urecipe/pkg/fsutil"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// SystemBinDir is used when HOME is unset or empty
const SystemBinDir = "/usr/local/bin"

// Config configures a Deployer
type Config struct {
	Fs      afero.Fs                // Filesystem (OS filesystem if nil)
	OS      string                  // Target OS; deploying only happens on linux
	DestDir string                  // Overrides the destination directory
	Getenv  func(key string) string // Environment lookup (os.Getenv if nil)
	Debug   bool
	Logger  *log.Logger
}

// Deployer copies built executables into a bin directory on PATH
type Deployer struct {
	config *Config
	fs     afero.Fs
	logger *log.Logger
}

// New creates a Deployer
func New(cfg *Config) *Deployer {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "DEPLOY", Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	fsys := cfg.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &Deployer{config: cfg, fs: fsys, logger: logger}
}

// Destination returns the directory executables are copied to:
// the override if set, else $HOME/bin, else SystemBinDir.
func (d *Deployer) Destination() string {
	if d.config.DestDir != "" {
		return d.config.DestDir
	}
	getenv := d.config.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, "bin")
	}
	return SystemBinDir
}

// Deploy copies every file under <pkgDir>/bin into the destination,
// overwriting files of the same name, and returns the copied paths.
// On hosts other than linux it does nothing.
func (d *Deployer) Deploy(pkgDir string) ([]string, error) {
	if !strings.EqualFold(d.config.OS, "linux") {
		d.logger.Debug("Not a Linux host, skipping deploy", "os", d.config.OS)
		return nil, nil
	}

	src := filepath.Join(pkgDir, "bin")
	if ok, _ := afero.DirExists(d.fs, src); !ok {
		d.logger.Warn("Package has no bin directory, nothing to deploy", "dir", src)
		return nil, nil
	}

	dst := d.Destination()
	if err := d.fs.MkdirAll(dst, 0755); err != nil {
		return nil, fmt.Errorf("deploy: creating %s: %w", dst, err)
	}

	copied, err := fsutil.CopyDir(d.fs, src, dst)
	if err != nil {
		return copied, fmt.Errorf("deploy: %w", err)
	}

	for _, path := range copied {
		d.logger.Debugf("  ✓ %s", path)
	}
	return copied, nil
}
