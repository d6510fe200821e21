// pkg/dist/dist.go
package dist

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrUnknownFormat indicates an archive format the packager cannot produce
var ErrUnknownFormat = errors.New("unknown archive format")

// Archive formats
const (
	FormatTarXz  = "tar.xz"
	FormatTarZst = "tar.zst"
	FormatDeb    = "deb"
	FormatNarXz  = "nar.xz"
)

// Formats lists every supported format
var Formats = []string{FormatTarXz, FormatTarZst, FormatDeb, FormatNarXz}

// Metadata describes the package being archived
type Metadata struct {
	Name        string
	Version     string
	Description string
	Homepage    string
	Maintainer  string
	OS          string // Target OS (recipe naming)
	Arch        string // Target arch (recipe naming)
}

// ArchiveName returns <name>-<version>-<os>-<arch>.<ext>
func (m Metadata) ArchiveName(format string) string {
	return fmt.Sprintf("%s-%s-%s-%s.%s", m.Name, m.Version, m.OS, m.Arch, format)
}

// Config configures a Packager
type Config struct {
	OutputDir string // Where archives are written
	Debug     bool
	Logger    *log.Logger
}

// Packager writes distribution archives of an installed package directory
type Packager struct {
	config *Config
	logger *log.Logger
}

// NewPackager creates a Packager
func NewPackager(cfg *Config) *Packager {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "DIST", Level: log.DebugLevel})
		} else {
			logger = log.New(io.Discard)
		}
	}

	return &Packager{config: cfg, logger: logger}
}

// ParseFormat normalizes a format name (".tar.xz", "TXZ" and the like)
func ParseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch f {
	case FormatTarXz, "txz":
		return FormatTarXz, nil
	case FormatTarZst, "tzst":
		return FormatTarZst, nil
	case FormatDeb:
		return FormatDeb, nil
	case FormatNarXz, "nar":
		return FormatNarXz, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Package writes one archive per format of the tree under pkgDir and
// returns their paths. Formats are validated before anything is written.
func (p *Packager) Package(pkgDir string, meta Metadata, formats []string) ([]string, error) {
	parsed := make([]string, 0, len(formats))
	for _, f := range formats {
		format, err := ParseFormat(f)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, format)
	}

	if info, err := os.Stat(pkgDir); err != nil {
		return nil, fmt.Errorf("package directory: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("package directory: %s is not a directory", pkgDir)
	}

	if err := os.MkdirAll(p.config.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var archives []string
	for _, format := range parsed {
		path := filepath.Join(p.config.OutputDir, meta.ArchiveName(format))
		p.logger.Debug("Writing archive", "format", format, "path", path)

		if err := p.write(path, format, pkgDir, meta); err != nil {
			os.Remove(path)
			return archives, fmt.Errorf("writing %s: %w", filepath.Base(path), err)
		}
		p.logger.Debugf("  ✓ %s", filepath.Base(path))
		archives = append(archives, path)
	}
	return archives, nil
}

func (p *Packager) write(path, format, pkgDir string, meta Metadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	switch format {
	case FormatTarXz:
		err = writeTarXz(f, pkgDir)
	case FormatTarZst:
		err = writeTarZst(f, pkgDir)
	case FormatDeb:
		err = writeDeb(f, pkgDir, meta)
	case FormatNarXz:
		err = writeNarXz(f, pkgDir)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
