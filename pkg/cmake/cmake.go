// pkg/cmake/cmake.go
package cmake

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arc-language/urecipe/pkg/buildconf"
	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/charmbracelet/log"
)

// ErrStepFailed is wrapped by every configure, build or install failure
var ErrStepFailed = errors.New("cmake step failed")

// Build steps
const (
	StepConfigure = "configure"
	StepBuild     = "build"
	StepInstall   = "install"
)

// StepError reports which toolchain step failed and how
type StepError struct {
	Step string
	Code int
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("cmake %s failed (exit status %d): %v", e.Step, e.Code, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{ErrStepFailed, e.Err}
}

// Config configures a CMake driver
type Config struct {
	Runner        shell.Runner // Command runner (ExecRunner if nil)
	Binary        string       // cmake executable (default "cmake")
	Generator     string       // e.g. "Unix Makefiles", "Ninja"
	BuildType     string       // e.g. Release
	BuildDir      string       // Binary directory
	InstallPrefix string       // Package directory the install step fills
	Jobs          int          // Parallel compile jobs, 0 for the toolchain default
	Compiler      string       // CMAKE_CXX_COMPILER when set
	Debug         bool
	Logger        *log.Logger
}

// CMake runs the configure, build and install steps of a CMake project
type CMake struct {
	config *Config
	runner shell.Runner
	logger *log.Logger
}

// New creates a CMake driver
func New(cfg *Config) *CMake {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Binary == "" {
		cfg.Binary = "cmake"
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "CMAKE", Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	runner := cfg.Runner
	if runner == nil {
		runner = shell.ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
	}

	return &CMake{config: cfg, runner: runner, logger: logger}
}

// Run configures, builds and installs sourceDir, stopping at the first failure
func (c *CMake) Run(ctx context.Context, sourceDir string, defs *buildconf.Mapping) error {
	if err := c.Configure(ctx, sourceDir, defs); err != nil {
		return err
	}
	if err := c.Build(ctx); err != nil {
		return err
	}
	return c.Install(ctx)
}

// Configure generates the build system for sourceDir using defs
func (c *CMake) Configure(ctx context.Context, sourceDir string, defs *buildconf.Mapping) error {
	c.logger.Debug("Configuring", "source", sourceDir, "build", c.config.BuildDir)
	if defs != nil {
		c.logger.Debug(defs.Describe())
	}
	return c.run(ctx, StepConfigure, c.ConfigureArgs(sourceDir, defs))
}

// Build compiles the configured project
func (c *CMake) Build(ctx context.Context) error {
	c.logger.Debug("Building", "jobs", c.config.Jobs)
	return c.run(ctx, StepBuild, c.BuildArgs())
}

// Install installs the build into the install prefix
func (c *CMake) Install(ctx context.Context) error {
	c.logger.Debug("Installing", "prefix", c.config.InstallPrefix)
	return c.run(ctx, StepInstall, c.InstallArgs())
}

// ConfigureArgs returns the arguments of the configure step
func (c *CMake) ConfigureArgs(sourceDir string, defs *buildconf.Mapping) []string {
	var args []string
	if c.config.Generator != "" {
		args = append(args, "-G", c.config.Generator)
	}
	if c.config.BuildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+c.config.BuildType)
	}
	if c.config.InstallPrefix != "" {
		args = append(args, "-DCMAKE_INSTALL_PREFIX="+c.config.InstallPrefix)
	}
	if c.config.Compiler != "" {
		args = append(args, "-DCMAKE_CXX_COMPILER="+c.config.Compiler)
	}
	if defs != nil {
		args = append(args, defs.Args()...)
	}
	return append(args, "-S", sourceDir, "-B", c.config.BuildDir)
}

// BuildArgs returns the arguments of the build step
func (c *CMake) BuildArgs() []string {
	args := c.buildBase()
	if c.config.Jobs > 0 && strings.Contains(c.config.Generator, "Makefiles") {
		args = append(args, "--", "-j"+strconv.Itoa(c.config.Jobs))
	}
	return args
}

// InstallArgs returns the arguments of the install step
func (c *CMake) InstallArgs() []string {
	return append(c.buildBase(), "--target", "install")
}

func (c *CMake) buildBase() []string {
	args := []string{"--build", c.config.BuildDir}
	if c.config.BuildType != "" {
		args = append(args, "--config", c.config.BuildType)
	}
	return args
}

func (c *CMake) run(ctx context.Context, step string, args []string) error {
	res, err := c.runner.Run(ctx, shell.Command{Name: c.config.Binary, Args: args})
	if err != nil {
		c.logger.Error("cmake step failed", "step", step, "exit", res.ExitCode)
		return &StepError{Step: step, Code: res.ExitCode, Err: err}
	}
	c.logger.Debugf("  ✓ cmake %s", step)
	return nil
}
