// pkg/apt/manager.go
package apt

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/charmbracelet/log"
)

// NewPackageManager creates a new apt package manager
func NewPackageManager(cfg *Config) *PackageManager {
	if cfg == nil {
		cfg = &Config{NoRecommends: true}
	}

	// Setup logger
	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "APT", Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = shell.ExecRunner{Logger: logger}
	}

	pm := &PackageManager{
		runner: runner,
		config: cfg,
		logger: logger,
	}

	logger.Debug("Initialized APT PackageManager", "sudo", cfg.UseSudo, "skipInstalled", cfg.SkipInstalled)

	return pm
}

// Update refreshes the package index
func (pm *PackageManager) Update(ctx context.Context) error {
	pm.logger.Debug("Updating package index...")
	if _, err := pm.runner.Run(ctx, pm.aptGet("update")); err != nil {
		return fmt.Errorf("apt-get update: %w", err)
	}
	pm.logger.Debug("  ✓ Package index updated")
	return nil
}

// Install installs the named packages non-interactively
func (pm *PackageManager) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	if pm.config.SkipInstalled {
		missing, err := pm.Missing(ctx, names)
		if err != nil {
			pm.logger.Warn("Could not query installed packages, installing all", "err", err)
		} else {
			names = missing
		}
		if len(names) == 0 {
			pm.logger.Debug("  ✓ All packages already installed")
			return nil
		}
	}

	args := []string{"install", "-y"}
	if pm.config.NoRecommends {
		args = append(args, "--no-install-recommends")
	}
	args = append(args, names...)

	pm.logger.Debug("Installing packages", "count", len(names))
	if _, err := pm.runner.Run(ctx, pm.aptGet(args...)); err != nil {
		return fmt.Errorf("apt-get install: %w", err)
	}
	pm.logger.Debug("  ✓ Packages installed", "packages", strings.Join(names, " "))
	return nil
}

// Missing returns the subset of names dpkg does not report as installed.
// Order is preserved.
func (pm *PackageManager) Missing(ctx context.Context, names []string) ([]string, error) {
	args := append([]string{"-W", "-f=${binary:Package}\t${Status}\n"}, names...)
	res, err := pm.runner.Run(ctx, shell.Command{Name: DpkgQuery, Args: args})
	// dpkg-query exits 1 when some names are unknown but still prints the rest
	if err != nil && res.ExitCode != 1 {
		return nil, fmt.Errorf("dpkg-query: %w", err)
	}

	installed := ParseStatus(res.Stdout)
	var missing []string
	for _, n := range names {
		if !installed[n] {
			missing = append(missing, n)
		}
	}
	return missing, nil
}

// ParseStatus parses "name<TAB>status" lines from dpkg-query and returns
// the set of installed package names. Multiarch names are recorded both
// with and without their qualifier.
func ParseStatus(out []byte) map[string]bool {
	installed := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		name, status, ok := strings.Cut(scanner.Text(), "\t")
		if !ok || strings.TrimSpace(status) != installedStatus {
			continue
		}
		installed[name] = true
		if base, _, qualified := strings.Cut(name, ":"); qualified {
			installed[base] = true
		}
	}
	return installed
}

func (pm *PackageManager) aptGet(args ...string) shell.Command {
	cmd := shell.Command{Name: AptGet, Args: args, Env: []string{FrontendEnv}}
	if pm.config.UseSudo {
		// sudo resets the environment, so pass the frontend through env(1)
		cmd = shell.Command{Name: Sudo, Args: append([]string{"env", FrontendEnv, AptGet}, args...)}
	}
	return cmd
}
