// pkg/core/config.go
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "URECIPE"

// Settings is the complete, read-only configuration of one recipe run.
// It is passed by value into every step; nothing mutates it after Resolve.
type Settings struct {
	OS        string `yaml:"os" mapstructure:"os"`                 // Target OS (linux, darwin, windows); host OS if empty
	Arch      string `yaml:"arch" mapstructure:"arch"`             // Target arch (x86, x86_64, armv7, armv8); host arch if empty
	BuildType string `yaml:"build_type" mapstructure:"build_type"` // CMake build type
	Compiler  string `yaml:"compiler" mapstructure:"compiler"`     // Informational, passed to CMake as CMAKE_CXX_COMPILER when set

	WorkDir    string `yaml:"work_dir" mapstructure:"work_dir"`       // Where the source tree is cloned
	BuildDir   string `yaml:"build_dir" mapstructure:"build_dir"`     // CMake binary dir (default <work_dir>/build)
	PackageDir string `yaml:"package_dir" mapstructure:"package_dir"` // Install prefix (default <work_dir>/package)
	Generator  string `yaml:"generator" mapstructure:"generator"`     // CMake generator
	Jobs       int    `yaml:"jobs" mapstructure:"jobs"`               // Parallel build jobs

	InstallSystemPackages bool `yaml:"install_system_packages" mapstructure:"install_system_packages"`
	UseSudo               bool `yaml:"use_sudo" mapstructure:"use_sudo"`

	RegistryPath  string `yaml:"registry_path" mapstructure:"registry_path"`     // deps/<name>/index.toml tree
	BuildInfoPath string `yaml:"build_info_path" mapstructure:"build_info_path"` // conanbuildinfo.json, takes precedence over the registry

	DistFormats []string `yaml:"dist_formats" mapstructure:"dist_formats"` // Archive formats to produce after the build
	DistDir     string   `yaml:"dist_dir" mapstructure:"dist_dir"`         // Where archives are written (default <work_dir>/dist)

	DeployDir string `yaml:"deploy_dir" mapstructure:"deploy_dir"` // Overrides $HOME/bin

	DryRun bool `yaml:"dry_run" mapstructure:"dry_run"`
	Debug  bool `yaml:"debug" mapstructure:"debug"`
}

// DefaultSettings returns the settings used when no config file exists
func DefaultSettings() Settings {
	return Settings{
		BuildType:             "Release",
		WorkDir:               ".",
		Generator:             "Unix Makefiles",
		Jobs:                  runtime.NumCPU(),
		InstallSystemPackages: true,
		UseSudo:               true,
		RegistryPath:          getDefaultRegistryPath(),
	}
}

// DefaultConfigPath returns $HOME/.config/urecipe/config.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "urecipe", "config.yaml")
}

// LoadSettings loads settings from a YAML file, layering URECIPE_* environment
// variables on top. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = DefaultConfigPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("parsing config: %w", err)
	}
	return s, nil
}

// SaveSettings writes settings as YAML, creating parent directories
func SaveSettings(s Settings, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("no config path and no home directory")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := s.YAML()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// YAML renders the settings in config-file form
func (s Settings) YAML() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Resolve fills derived defaults and makes directories absolute.
// The receiver is left untouched.
func (s Settings) Resolve(hostOS, hostArch string) (Settings, error) {
	out := s
	out.DistFormats = append([]string(nil), s.DistFormats...)

	if out.OS == "" {
		out.OS = hostOS
	}
	out.OS = strings.ToLower(out.OS)
	if out.Arch == "" {
		out.Arch = hostArch
	}
	if out.BuildType == "" {
		out.BuildType = "Release"
	}
	if out.Generator == "" {
		out.Generator = "Unix Makefiles"
	}
	if out.Jobs <= 0 {
		out.Jobs = runtime.NumCPU()
	}
	if out.WorkDir == "" {
		out.WorkDir = "."
	}

	workDir, err := filepath.Abs(out.WorkDir)
	if err != nil {
		return Settings{}, fmt.Errorf("resolving work dir: %w", err)
	}
	out.WorkDir = workDir

	out.BuildDir = under(workDir, out.BuildDir, "build")
	out.PackageDir = under(workDir, out.PackageDir, "package")
	out.DistDir = under(workDir, out.DistDir, "dist")

	return out, nil
}

func under(root, dir, fallback string) string {
	if dir == "" {
		return filepath.Join(root, fallback)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(root, dir)
}

func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("os", d.OS)
	v.SetDefault("arch", d.Arch)
	v.SetDefault("build_type", d.BuildType)
	v.SetDefault("compiler", d.Compiler)
	v.SetDefault("work_dir", d.WorkDir)
	v.SetDefault("build_dir", d.BuildDir)
	v.SetDefault("package_dir", d.PackageDir)
	v.SetDefault("generator", d.Generator)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("install_system_packages", d.InstallSystemPackages)
	v.SetDefault("use_sudo", d.UseSudo)
	v.SetDefault("registry_path", d.RegistryPath)
	v.SetDefault("build_info_path", d.BuildInfoPath)
	v.SetDefault("dist_formats", d.DistFormats)
	v.SetDefault("dist_dir", d.DistDir)
	v.SetDefault("deploy_dir", d.DeployDir)
	v.SetDefault("dry_run", d.DryRun)
	v.SetDefault("debug", d.Debug)
}

func getDefaultRegistryPath() string {
	if path := os.Getenv("URECIPE_REGISTRY_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "urecipe", "deps")
	}

	return filepath.Join(home, ".cache", "urecipe", "deps")
}
