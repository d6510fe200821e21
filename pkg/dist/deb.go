// pkg/dist/deb.go
package dist

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/arc-language/urecipe/pkg/apt"
	"github.com/blakesmith/ar"
	"github.com/ulikunitz/xz"
)

const debianBinary = "2.0\n"

// writeDeb writes a Debian binary package: an ar archive holding
// debian-binary, control.tar.gz and data.tar.xz. The package tree is
// installed under /usr.
func writeDeb(w io.Writer, pkgDir string, meta Metadata) error {
	arch, err := debArch(meta.Arch)
	if err != nil {
		return err
	}

	size, err := treeSize(pkgDir)
	if err != nil {
		return err
	}

	var data bytes.Buffer
	xw, err := xz.NewWriter(&data)
	if err != nil {
		return err
	}
	if err := writeTar(xw, pkgDir, "usr"); err != nil {
		return err
	}
	if err := xw.Close(); err != nil {
		return err
	}

	control, err := controlTarGz(ControlFile(meta, arch, size))
	if err != nil {
		return err
	}

	aw := ar.NewWriter(w)
	if err := aw.WriteGlobalHeader(); err != nil {
		return err
	}
	members := []struct {
		name string
		body []byte
	}{
		{"debian-binary", []byte(debianBinary)},
		{"control.tar.gz", control},
		{"data.tar.xz", data.Bytes()},
	}
	for _, m := range members {
		hdr := &ar.Header{
			Name:    m.name,
			ModTime: epoch,
			Mode:    0644,
			Size:    int64(len(m.body)),
		}
		if err := aw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("ar header %s: %w", m.name, err)
		}
		if _, err := aw.Write(m.body); err != nil {
			return fmt.Errorf("ar member %s: %w", m.name, err)
		}
	}
	return nil
}

// debArch accepts a Debian architecture name as is (amd64, all, ...) and
// maps recipe names (x86_64, armv8, ...) otherwise
func debArch(arch string) (apt.Architecture, error) {
	if a := apt.Architecture(arch); a.IsValid() {
		return a, nil
	}
	return apt.FromHostArch(arch)
}

// ControlFile renders the DEBIAN/control stanza for the package
func ControlFile(meta Metadata, arch apt.Architecture, installedBytes int64) string {
	maintainer := meta.Maintainer
	if maintainer == "" {
		maintainer = "urecipe <urecipe@localhost>"
	}
	description := meta.Description
	if description == "" {
		description = meta.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Package: %s\n", strings.ToLower(meta.Name))
	fmt.Fprintf(&b, "Version: %s\n", meta.Version)
	fmt.Fprintf(&b, "Architecture: %s\n", arch)
	fmt.Fprintf(&b, "Maintainer: %s\n", maintainer)
	fmt.Fprintf(&b, "Installed-Size: %d\n", (installedBytes+1023)/1024)
	if meta.Homepage != "" {
		fmt.Fprintf(&b, "Homepage: %s\n", meta.Homepage)
	}
	fmt.Fprintf(&b, "Description: %s\n", description)
	return b.String()
}

func controlTarGz(control string) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	hdr := &tar.Header{
		Name:     "./control",
		Mode:     0644,
		Size:     int64(len(control)),
		ModTime:  epoch,
		Typeflag: tar.TypeReg,
		Uname:    "root",
		Gname:    "root",
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, err
	}
	if _, err := io.WriteString(tw, control); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
