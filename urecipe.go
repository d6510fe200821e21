// urecipe.go
package urecipe

import (
	"context"
	"io"
	"os"

	"github.com/arc-language/urecipe/pkg/backend"
	"github.com/arc-language/urecipe/pkg/buildconf"
	"github.com/arc-language/urecipe/pkg/cmake"
	"github.com/arc-language/urecipe/pkg/core"
	"github.com/arc-language/urecipe/pkg/deploy"
	"github.com/arc-language/urecipe/pkg/dist"
	"github.com/arc-language/urecipe/pkg/platform"
	"github.com/arc-language/urecipe/pkg/recipe"
	"github.com/arc-language/urecipe/pkg/registry"
	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/arc-language/urecipe/pkg/source"
	"github.com/arc-language/urecipe/pkg/sysreqs"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Re-export types for convenience
type (
	Settings    = core.Settings
	Package     = core.Package
	Requirement = core.Requirement
	Recipe      = recipe.Recipe
	Host        = platform.Host
	Outcome     = sysreqs.Outcome
	Mapping     = buildconf.Mapping
)

// Pipeline steps, in execution order
const (
	StepSystem    = "system"
	StepSource    = "source"
	StepConfigure = "configure"
	StepBuild     = "build"
	StepPackage   = "package"
	StepDeploy    = "deploy"
)

// SystemInstaller installs host packages. It reports problems through the
// returned Outcome instead of failing.
type SystemInstaller interface {
	Install(ctx context.Context, h platform.Host, lists sysreqs.Lists) sysreqs.Outcome
}

// Fetcher checks out url at tag into dir
type Fetcher interface {
	Fetch(ctx context.Context, url, tag, dir string) error
}

// Builder configures, compiles and installs a source tree
type Builder interface {
	Run(ctx context.Context, sourceDir string, defs *buildconf.Mapping) error
}

// Packager writes distribution archives of the installed package
type Packager interface {
	Package(pkgDir string, meta dist.Metadata, formats []string) ([]string, error)
}

// Deployer copies the built executables to their destination
type Deployer interface {
	Deploy(pkgDir string) ([]string, error)
}

// Pipeline runs a recipe: system packages, source, configure, build,
// package and deploy, stopping at the first fatal failure.
type Pipeline struct {
	Recipe   recipe.Recipe
	Settings core.Settings
	Host     platform.Host

	System   SystemInstaller
	Fetcher  Fetcher
	Resolver core.Resolver
	Builder  Builder
	Packager Packager
	Deployer Deployer

	Fs     afero.Fs
	Logger *log.Logger

	// Recorder captures the commands of a dry run
	Recorder *shell.Recorder
}

// Report describes what a run did
type Report struct {
	Recipe      string
	Steps       []string // Completed steps, in order
	Warnings    []string
	System      sysreqs.Outcome
	SourceDir   string
	Definitions *buildconf.Mapping
	Archives    []string
	Deployed    []string
	Commands    []string // Commands a dry run would have executed
}

// NewPipeline wires the default components for running r with settings s
// on host h. The settings' target OS and arch override the host's.
func NewPipeline(r recipe.Recipe, s core.Settings, h platform.Host, logger *log.Logger) (*Pipeline, error) {
	resolved, err := s.Resolve(h.OS, h.Arch)
	if err != nil {
		return nil, &Error{Op: "settings", Package: r.Name, Err: err}
	}
	s = resolved
	h = h.WithTarget(s.OS, s.Arch)

	if logger == nil {
		if s.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	p := &Pipeline{
		Recipe:   r,
		Settings: s,
		Host:     h,
		Fs:       afero.NewOsFs(),
		Logger:   logger,
	}

	var runner shell.Runner = shell.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr, Logger: logger}
	if s.DryRun {
		p.Recorder = &shell.Recorder{}
		runner = p.Recorder
	}

	p.System = sysreqs.NewInstaller(&sysreqs.Config{
		UseSudo:       s.UseSudo && (s.DryRun || platform.NeedsSudo(true)),
		Logger:        logger.WithPrefix("SYSREQS"),
		BackendConfig: backend.Config{Runner: runner},
	})
	p.Fetcher = source.NewGitFetcher(&source.Config{
		Shallow: true,
		Logger:  logger.WithPrefix("SOURCE"),
	})
	p.Resolver = newResolver(p.Fs, s)
	p.Builder = cmake.New(&cmake.Config{
		Runner:        runner,
		Generator:     s.Generator,
		BuildType:     s.BuildType,
		BuildDir:      s.BuildDir,
		InstallPrefix: s.PackageDir,
		Jobs:          s.Jobs,
		Compiler:      s.Compiler,
		Logger:        logger.WithPrefix("CMAKE"),
	})
	p.Packager = dist.NewPackager(&dist.Config{
		OutputDir: s.DistDir,
		Logger:    logger.WithPrefix("DIST"),
	})
	p.Deployer = deploy.New(&deploy.Config{
		Fs:      p.Fs,
		OS:      s.OS,
		DestDir: s.DeployDir,
		Logger:  logger.WithPrefix("DEPLOY"),
	})

	return p, nil
}

// newResolver answers from the build-info file when one is configured,
// then from the registry
func newResolver(fsys afero.Fs, s core.Settings) core.Resolver {
	var chain registry.Chain
	if s.BuildInfoPath != "" {
		chain = append(chain, lazyBuildInfo{fs: fsys, path: s.BuildInfoPath})
	}
	if s.RegistryPath != "" {
		chain = append(chain, registry.NewFS(fsys, s.RegistryPath))
	}
	return chain
}

// lazyBuildInfo loads the build-info file on first use so a missing file
// only matters when something is resolved
type lazyBuildInfo struct {
	fs   afero.Fs
	path string
}

func (l lazyBuildInfo) Resolve(ctx context.Context, req core.Requirement) (*core.Package, error) {
	info, err := registry.LoadBuildInfo(l.fs, l.path)
	if err != nil {
		return nil, err
	}
	return info.Resolve(ctx, req)
}

// Run executes every step in order. A system package problem is recorded
// as a warning; any other failure stops the run and is returned along with
// the report of what completed.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	rep := &Report{Recipe: p.Recipe.Reference()}
	defer p.recordCommands(rep)

	p.Logger.Info("Running recipe", "recipe", rep.Recipe, "host", p.Host.String())

	p.Logger.Info("Step 1: System packages")
	rep.System = p.SystemPackages(ctx)
	if !rep.System.OK() {
		rep.Warnings = append(rep.Warnings, "system packages: "+rep.System.Warning.Error())
	}
	rep.Steps = append(rep.Steps, StepSystem)

	p.Logger.Info("Step 2: Source")
	dir, err := p.Source(ctx)
	if err != nil {
		return rep, err
	}
	rep.SourceDir = dir
	rep.Steps = append(rep.Steps, StepSource)

	p.Logger.Info("Step 3: Configure")
	defs, err := p.Configure(ctx)
	if err != nil {
		return rep, err
	}
	rep.Definitions = defs
	rep.Steps = append(rep.Steps, StepConfigure)

	p.Logger.Info("Step 4: Build")
	if err := p.Build(ctx, dir, defs); err != nil {
		return rep, err
	}
	rep.Steps = append(rep.Steps, StepBuild)

	if len(p.Settings.DistFormats) > 0 {
		p.Logger.Info("Step 5: Package", "formats", p.Settings.DistFormats)
		archives, err := p.Package(ctx)
		if err != nil {
			return rep, err
		}
		rep.Archives = archives
		rep.Steps = append(rep.Steps, StepPackage)
	}

	p.Logger.Info("Step 6: Deploy")
	deployed, err := p.Deploy(ctx)
	if err != nil {
		return rep, err
	}
	rep.Deployed = deployed
	rep.Steps = append(rep.Steps, StepDeploy)

	p.Logger.Info("✓ Recipe complete", "recipe", rep.Recipe)
	return rep, nil
}

// SystemPackages installs the recipe's host packages. It never fails.
func (p *Pipeline) SystemPackages(ctx context.Context) sysreqs.Outcome {
	if !p.Settings.InstallSystemPackages {
		p.Logger.Info("  System packages disabled, skipping")
		return sysreqs.Outcome{Skipped: true}
	}
	out := p.System.Install(ctx, p.Host, p.Recipe.SystemPackages)
	switch {
	case !out.OK():
		p.Logger.Warn("Could not run system updates to fetch system requirements", "err", out.Warning)
	case out.Skipped:
		p.Logger.Info("  Nothing to install for this host")
	default:
		p.Logger.Info("  ✓ System packages installed", "backend", out.Backend, "count", len(out.Packages))
	}
	return out
}

// Source checks out the recipe's tag and returns the source directory
func (p *Pipeline) Source(ctx context.Context) (string, error) {
	dir := p.Recipe.SourceDir(p.Settings.WorkDir)
	tag := p.Recipe.Tag()

	if p.Settings.DryRun {
		p.Logger.Info("  Dry run, not cloning", "url", p.Recipe.Repository, "tag", tag, "dir", dir)
		return dir, nil
	}

	if err := p.Fetcher.Fetch(ctx, p.Recipe.Repository, tag, dir); err != nil {
		return "", &Error{Op: StepSource, Package: p.Recipe.Name, Err: err}
	}
	p.Logger.Info("  ✓ Source checked out", "tag", tag, "dir", dir)
	return dir, nil
}

// Configure resolves the recipe's requirements and derives the build
// definitions from them. Outside a dry run every definition must point at
// an existing absolute path.
func (p *Pipeline) Configure(ctx context.Context) (*buildconf.Mapping, error) {
	resolved, err := core.ResolveAll(ctx, p.Resolver, p.Recipe.Requires)
	if err != nil {
		return nil, &Error{Op: StepConfigure, Package: p.Recipe.Name, Err: err}
	}

	cfg := p.Recipe.Build
	cfg.TargetOS = p.Settings.OS

	defs, err := buildconf.Derive(cfg, resolved)
	if err != nil {
		return nil, &Error{Op: StepConfigure, Package: p.Recipe.Name, Err: err}
	}
	m := defs.Mapping()
	p.Logger.Info(m.Describe())

	if !p.Settings.DryRun {
		if err := buildconf.Validate(p.Fs, m); err != nil {
			return nil, &Error{Op: StepConfigure, Package: p.Recipe.Name, Err: err}
		}
	}
	return m, nil
}

// Build configures, compiles and installs the source tree into the package directory
func (p *Pipeline) Build(ctx context.Context, sourceDir string, defs *buildconf.Mapping) error {
	if err := p.Builder.Run(ctx, sourceDir, defs); err != nil {
		return &Error{Op: StepBuild, Package: p.Recipe.Name, Err: err}
	}
	p.Logger.Info("  ✓ Built and installed", "prefix", p.Settings.PackageDir)
	return nil
}

// Package writes the configured distribution archives
func (p *Pipeline) Package(_ context.Context) ([]string, error) {
	if p.Settings.DryRun {
		p.Logger.Info("  Dry run, not packaging")
		return nil, nil
	}

	meta := dist.Metadata{
		Name:        p.Recipe.Name,
		Version:     p.Recipe.Version,
		Description: p.Recipe.Description,
		Homepage:    p.Recipe.URL,
		OS:          p.Settings.OS,
		Arch:        p.Settings.Arch,
	}
	archives, err := p.Packager.Package(p.Settings.PackageDir, meta, p.Settings.DistFormats)
	if err != nil {
		return archives, &Error{Op: StepPackage, Package: p.Recipe.Name, Err: err}
	}
	for _, a := range archives {
		p.Logger.Info("  ✓ Archive written", "path", a)
	}
	return archives, nil
}

// Deploy copies the built executables into the user's bin directory
func (p *Pipeline) Deploy(_ context.Context) ([]string, error) {
	if p.Settings.DryRun {
		p.Logger.Info("  Dry run, not deploying")
		return nil, nil
	}

	deployed, err := p.Deployer.Deploy(p.Settings.PackageDir)
	if err != nil {
		return deployed, &Error{Op: StepDeploy, Package: p.Recipe.Name, Err: err}
	}
	if len(deployed) > 0 {
		p.Logger.Info("  ✓ Deployed", "files", len(deployed))
	}
	return deployed, nil
}

func (p *Pipeline) recordCommands(rep *Report) {
	if p.Recorder != nil {
		rep.Commands = p.Recorder.Lines()
	}
}
