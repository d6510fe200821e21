// pkg/platform/resolver.go
package platform

import (
	"os"
)

// distroBackends maps os-release IDs to their native package manager
var distroBackends = map[string]string{
	"ubuntu":              "apt",
	"debian":              "apt",
	"linuxmint":           "apt",
	"fedora":              "dnf",
	"rhel":                "dnf",
	"centos":              "dnf",
	"rocky":               "dnf",
	"arch":                "pacman",
	"manjaro":             "pacman",
	"opensuse":            "zypper",
	"opensuse-leap":       "zypper",
	"opensuse-tumbleweed": "zypper",
	"sles":                "zypper",
	"alpine":              "apk",
}

// ResolveBackend returns the system package manager for the host.
//
// Priority:
//  1. The distro ID itself
//  2. The first ID_LIKE entry that is known
func ResolveBackend(h Host) (string, bool) {
	if !h.IsLinux() {
		return "", false
	}
	if b, ok := distroBackends[h.Distro]; ok {
		return b, true
	}
	for _, like := range h.Like {
		if b, ok := distroBackends[like]; ok {
			return b, true
		}
	}
	return "", false
}

// NeedsSudo reports whether system package commands should be prefixed
// with sudo: the caller wants it, we are not root, and sudo exists.
func NeedsSudo(want bool) bool {
	if !want || os.Geteuid() == 0 {
		return false
	}
	return commandExists("sudo")
}
