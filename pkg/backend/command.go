// pkg/backend/command.go
package backend

import (
	"context"
	"fmt"
	"slices"

	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/charmbracelet/log"
)

// commandBackend drives a package manager whose update and install
// operations are single non-interactive commands
type commandBackend struct {
	name     string
	binary   string
	update   []string // arguments for the index refresh, nil if there is none
	install  []string // arguments preceding the package names
	updateOK []int    // extra exit codes that mean success for update
	qualify  func(name, arch string) string
	useSudo  bool
	runner   shell.Runner
	logger   *log.Logger
}

func (b *commandBackend) Name() string {
	return b.name
}

func (b *commandBackend) Update(ctx context.Context) error {
	if b.update == nil {
		return nil
	}
	b.logger.Debug("Updating package index...")
	res, err := b.runner.Run(ctx, b.command(b.update))
	if err != nil && !slices.Contains(b.updateOK, res.ExitCode) {
		return fmt.Errorf("%s update: %w", b.name, err)
	}
	b.logger.Debug("  ✓ Package index updated")
	return nil
}

func (b *commandBackend) Install(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append(slices.Clone(b.install), names...)
	b.logger.Debug("Installing packages", "count", len(names))
	if _, err := b.runner.Run(ctx, b.command(args)); err != nil {
		return fmt.Errorf("%s install: %w", b.name, err)
	}
	b.logger.Debug("  ✓ Packages installed")
	return nil
}

func (b *commandBackend) Qualify(names []string, arch string) []string {
	if b.qualify == nil {
		return slices.Clone(names)
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, b.qualify(n, arch))
	}
	return out
}

func (b *commandBackend) command(args []string) shell.Command {
	if b.useSudo {
		return shell.Command{Name: "sudo", Args: append([]string{b.binary}, args...)}
	}
	return shell.Command{Name: b.binary, Args: slices.Clone(args)}
}
