// internal/cli/registry.go
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arc-language/urecipe/pkg/registry"
	"github.com/spf13/cobra"
)

var syncBranch string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manage the local dependency registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered dependencies",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.New(settings.RegistryPath)
		names, err := reg.List()
		if err != nil {
			return err
		}

		fmt.Printf("Registry: %s\n", reg.Dir())
		for _, name := range names {
			entry, err := reg.Load(name)
			if err != nil {
				fmt.Printf("  ✗ %s: %v\n", name, err)
				continue
			}
			fmt.Printf("  %s/%s  %s\n", entry.Name, entry.Version, entry.RootPath)
		}
		return nil
	},
}

var registrySyncCmd = &cobra.Command{
	Use:   "sync <url>",
	Short: "Populate the registry from a git repository",
	Long: `Clone a repository holding <name>/index.toml entries (optionally under
deps/) and copy them into the local registry.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var progress io.Writer
		if settings.Debug {
			progress = os.Stderr
		}

		if err := registry.Sync(cmd.Context(), args[0], syncBranch, settings.RegistryPath, progress); err != nil {
			return err
		}
		fmt.Printf("✓ Registry synced to %s\n", settings.RegistryPath)
		return nil
	},
}

func init() {
	registrySyncCmd.Flags().StringVar(&syncBranch, "branch", registry.DefaultBranch, "branch to sync")

	registryCmd.AddCommand(registryListCmd)
	registryCmd.AddCommand(registrySyncCmd)
}
