// pkg/apt/types.go
package apt

import (
	"github.com/arc-language/urecipe/pkg/shell"
	"github.com/charmbracelet/log"
)

// Config configures the apt package manager
type Config struct {
	Runner        shell.Runner // Command runner (ExecRunner if nil)
	UseSudo       bool         // Prefix apt-get with sudo
	SkipInstalled bool         // Ask dpkg-query first and only install what is missing
	NoRecommends  bool         // Pass --no-install-recommends
	Debug         bool         // Enable debug logging
	Logger        *log.Logger  // Custom logger (optional)
}

// PackageManager drives apt-get on the local host
type PackageManager struct {
	runner shell.Runner
	config *Config
	logger *log.Logger
}
