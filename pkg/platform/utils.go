// pkg/platform/utils.go
package platform

import (
	"os/exec"
)

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// CommandExists is the exported form of commandExists, used by the CLI
// to report which toolchain binaries are reachable.
func CommandExists(cmd string) bool {
	return commandExists(cmd)
}
