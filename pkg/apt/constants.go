// pkg/apt/constants.go
package apt

const (
	// AptGet is the apt front end used for scripted installs
	AptGet = "apt-get"

	// DpkgQuery queries the local package database
	DpkgQuery = "dpkg-query"

	// Sudo prefixes privileged commands
	Sudo = "sudo"

	// FrontendEnv keeps debconf from prompting
	FrontendEnv = "DEBIAN_FRONTEND=noninteractive"

	// installedStatus is what dpkg-query prints for an installed package
	installedStatus = "install ok installed"
)
