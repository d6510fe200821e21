// pkg/backend/dnf.go
package backend

// NewDnfBackend creates a new DNF backend for Fedora and RHEL derivatives
func NewDnfBackend(config *Config) Backend {
	logger := config.logger("DNF")
	return &commandBackend{
		name:    string(BackendDnf),
		binary:  "dnf",
		update:  []string{"check-update", "-y"},
		install: []string{"install", "-y"},
		// check-update exits 100 when updates are available
		updateOK: []int{100},
		qualify: func(name, arch string) string {
			if arch == "x86" {
				return name + ".i686"
			}
			return name
		},
		useSudo: config.UseSudo,
		runner:  config.runner(logger),
		logger:  logger,
	}
}
