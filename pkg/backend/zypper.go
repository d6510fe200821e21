// pkg/backend/zypper.go
package backend

// NewZypperBackend creates a new Zypper backend for openSUSE and SLES
func NewZypperBackend(config *Config) Backend {
	logger := config.logger("ZYPPER")
	return &commandBackend{
		name:    string(BackendZypper),
		binary:  "zypper",
		update:  []string{"--non-interactive", "refresh"},
		install: []string{"--non-interactive", "install", "--no-recommends"},
		qualify: func(name, arch string) string {
			if arch == "x86" {
				return name + "-32bit"
			}
			return name
		},
		useSudo: config.UseSudo,
		runner:  config.runner(logger),
		logger:  logger,
	}
}
