// internal/cli/info.go
package cli

import (
	"fmt"
	"strings"

	"github.com/arc-language/urecipe/pkg/deploy"
	"github.com/arc-language/urecipe/pkg/env"
	"github.com/arc-language/urecipe/pkg/platform"
	"github.com/arc-language/urecipe/pkg/recipe"
	"github.com/arc-language/urecipe/pkg/sysreqs"
	"github.com/spf13/cobra"
)

// libraryNames maps dependencies to the library file they ship
var libraryNames = map[string]string{
	"zlib":    "z",
	"bzip2":   "bz2",
	"openssl": "ssl",
}

var infoCmd = &cobra.Command{
	Use:   "info [recipe]",
	Short: "Show information about a recipe",
	Long: `Display a recipe, the host it would run on, the tools it needs and
where each of its requirements resolves to.

With no argument the built-in recipes are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("Recipes:")
		for _, name := range recipe.Names() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	p, err := newPipeline(args[0], quietLogger(settings))
	if err != nil {
		return err
	}
	r := p.Recipe

	fmt.Printf("Recipe: %s\n", r.Reference())
	fmt.Printf("License: %s\n", r.License)
	if r.Description != "" {
		fmt.Printf("Description: %s\n", r.Description)
	}
	fmt.Printf("Source: %s (tag %s)\n", r.Repository, r.Tag())
	fmt.Printf("Target: %s\n", p.Host)

	backendName, ok := platform.ResolveBackend(p.Host)
	if ok {
		pkgs := sysreqs.Packages(p.Host, r.SystemPackages)
		fmt.Printf("System packages (%s): %s\n", backendName, strings.Join(pkgs, " "))
	} else {
		fmt.Println("System packages: no known package manager")
	}

	fmt.Println("\nTools:")
	tools := []string{"git", "cmake", "sudo"}
	if ok {
		tools = append(tools, backendName)
	}
	for _, tool := range tools {
		marker := "✗"
		if platform.CommandExists(tool) {
			marker = "✓"
		}
		fmt.Printf("  %s %s\n", marker, tool)
	}

	fmt.Println("\nRequirements:")
	for _, req := range r.Requires {
		if opts := r.DependencyOptions(req.Name); len(opts) > 0 {
			fmt.Printf("  %s options: %s\n", req.Name, strings.Join(opts, " "))
		}

		pkg, err := p.Resolver.Resolve(cmd.Context(), req)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", req, err)
			continue
		}
		fmt.Printf("  ✓ %s -> %s\n", req, pkg.RootPath)

		if name := libraryNames[strings.ToLower(req.Name)]; name != "" {
			if lib := env.FindLibrary(p.Fs, p.Settings.OS, pkg.LibPaths(), name); lib != nil {
				fmt.Printf("      library: %s\n", lib.Path)
			}
		}
		if libs := env.FindAllLibraries(p.Fs, p.Settings.OS, pkg.LibPaths()); len(libs) > 0 {
			fmt.Printf("      %d libraries in %s\n", len(libs), strings.Join(pkg.LibPaths(), ", "))
		}
	}

	if d, ok := p.Deployer.(*deploy.Deployer); ok {
		fmt.Printf("\nDeploys to: %s\n", d.Destination())
	}

	return nil
}
