// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arc-language/urecipe"
	"github.com/arc-language/urecipe/pkg/core"
	"github.com/arc-language/urecipe/pkg/platform"
	"github.com/arc-language/urecipe/pkg/recipe"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags
var Version = "0.1.0"

var (
	cfgFile    string
	debug      bool
	dryRun     bool
	skipSystem bool
	arch       string
	buildType  string
	workDir    string
	formats    []string
	settings   core.Settings
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "urecipe",
	Short: "Build recipes for CMake projects",
	Long: `urecipe - build recipes for CMake projects

Installs host packages, checks out a tagged source tree, derives CMake
definitions from resolved dependencies, builds, installs and deploys.

Examples:
  urecipe run heaptrack
  urecipe run heaptrack --arch x86 --dry-run
  urecipe configure heaptrack --debug
  urecipe info heaptrack`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() error {
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/urecipe/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print commands instead of running them")
	rootCmd.PersistentFlags().BoolVar(&skipSystem, "skip-system", false, "do not install system packages")
	rootCmd.PersistentFlags().StringVar(&arch, "arch", "", "target architecture (x86, x86_64, armv7, armv8)")
	rootCmd.PersistentFlags().StringVar(&buildType, "build-type", "", "CMake build type")
	rootCmd.PersistentFlags().StringVar(&workDir, "workdir", "", "directory the source is cloned into")
	rootCmd.PersistentFlags().StringSliceVar(&formats, "format", nil, "archive formats to produce (tar.xz, tar.zst, deb, nar.xz)")

	// Add commands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(systemCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	settings, err = core.LoadSettings(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		settings = core.DefaultSettings()
	}

	// Override config with flags
	flags := rootCmd.PersistentFlags()
	if debug {
		settings.Debug = true
	}
	if dryRun {
		settings.DryRun = true
	}
	if skipSystem {
		settings.InstallSystemPackages = false
	}
	if arch != "" {
		settings.Arch = arch
	}
	if buildType != "" {
		settings.BuildType = buildType
	}
	if workDir != "" {
		settings.WorkDir = workDir
	}
	if flags.Changed("format") {
		settings.DistFormats = formats
	}
}

// newLogger logs step progress to stderr; --debug adds command details
func newLogger(s core.Settings) *log.Logger {
	level := log.InfoLevel
	if s.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "urecipe",
		Level:  level,
	})
}

// quietLogger discards everything below warnings unless debugging
func quietLogger(s core.Settings) *log.Logger {
	if s.Debug {
		return newLogger(s)
	}
	return log.New(io.Discard)
}

// recipeName returns the first argument, defaulting to heaptrack
func recipeName(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "heaptrack"
}

// newPipeline builds the pipeline for the named recipe on the current host
func newPipeline(name string, logger *log.Logger) (*urecipe.Pipeline, error) {
	r, err := recipe.Lookup(name)
	if err != nil {
		return nil, err
	}

	return urecipe.NewPipeline(r, settings, platform.Detect(), logger)
}
