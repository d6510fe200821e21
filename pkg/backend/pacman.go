// pkg/backend/pacman.go
package backend

// NewPacmanBackend creates a new Pacman backend for Arch Linux
func NewPacmanBackend(config *Config) Backend {
	logger := config.logger("PACMAN")
	return &commandBackend{
		name:    string(BackendPacman),
		binary:  "pacman",
		update:  []string{"-Sy", "--noconfirm"},
		install: []string{"-S", "--needed", "--noconfirm"},
		useSudo: config.UseSudo,
		runner:  config.runner(logger),
		logger:  logger,
	}
}
