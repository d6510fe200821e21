// internal/cli/steps.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var systemCmd = &cobra.Command{
	Use:   "system [recipe]",
	Short: "Install the recipe's system packages",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(recipeName(args), newLogger(settings))
		if err != nil {
			return err
		}

		out := p.SystemPackages(cmd.Context())
		switch {
		case !out.OK():
			fmt.Printf("⚠ %v\n", out.Warning)
		case out.Skipped:
			fmt.Println("Nothing to install")
		default:
			fmt.Printf("✓ Installed %d packages with %s\n", len(out.Packages), out.Backend)
		}
		printCommands(p.Recorder)
		return nil
	},
}

var sourceCmd = &cobra.Command{
	Use:   "source [recipe]",
	Short: "Clone the recipe's source at its release tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(recipeName(args), newLogger(settings))
		if err != nil {
			return err
		}

		dir, err := p.Source(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(dir)
		return nil
	},
}

var configureCmd = &cobra.Command{
	Use:   "configure [recipe]",
	Short: "Resolve dependencies and print the CMake definitions",
	Long: `Resolve the recipe's requirements and derive the CMake cache
definitions from them. Nothing is built.

Each definition must point at an existing absolute path unless --dry-run
is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(recipeName(args), quietLogger(settings))
		if err != nil {
			return err
		}

		defs, err := p.Configure(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Print(defs.Describe())
		return nil
	},
}

var buildCmd = &cobra.Command{
	Use:   "build [recipe]",
	Short: "Configure, build and install an already cloned source tree",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(recipeName(args), newLogger(settings))
		if err != nil {
			return err
		}

		defs, err := p.Configure(cmd.Context())
		if err != nil {
			return err
		}
		if err := p.Build(cmd.Context(), p.Recipe.SourceDir(p.Settings.WorkDir), defs); err != nil {
			return err
		}
		printCommands(p.Recorder)
		return nil
	},
}

var packageCmd = &cobra.Command{
	Use:   "package [recipe]",
	Short: "Write distribution archives of the installed package",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(recipeName(args), newLogger(settings))
		if err != nil {
			return err
		}
		if len(p.Settings.DistFormats) == 0 {
			return fmt.Errorf("no archive formats configured, use --format")
		}

		archives, err := p.Package(cmd.Context())
		if err != nil {
			return err
		}
		for _, a := range archives {
			fmt.Println(a)
		}
		return nil
	},
}

var deployCmd = &cobra.Command{
	Use:   "deploy [recipe]",
	Short: "Copy the built executables to ~/bin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline(recipeName(args), newLogger(settings))
		if err != nil {
			return err
		}

		deployed, err := p.Deploy(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range deployed {
			fmt.Println(d)
		}
		return nil
	},
}
