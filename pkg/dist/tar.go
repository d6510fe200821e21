// pkg/dist/tar.go
package dist

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// epoch is stamped on every entry so archives of the same tree are identical
var epoch = time.Unix(0, 0).UTC()

func writeTarXz(w io.Writer, root string) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	if err := writeTar(xw, root, ""); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}

func writeTarZst(w io.Writer, root string) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if err := writeTar(zw, root, ""); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// writeTar writes the tree under root as a tar stream. Entry names are
// "./" + prefix + relative path, in lexical walk order.
func writeTar(w io.Writer, root, prefix string) error {
	tw := tar.NewWriter(w)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := "./" + filepath.ToSlash(filepath.Join(prefix, rel))
		if rel == "." && prefix == "" {
			name = "./"
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = name
		if info.IsDir() && name != "./" {
			hdr.Name += "/"
		}
		hdr.ModTime = epoch
		hdr.AccessTime, hdr.ChangeTime = time.Time{}, time.Time{}
		hdr.Uid, hdr.Gid = 0, 0
		hdr.Uname, hdr.Gname = "root", "root"
		hdr.Format = tar.FormatGNU

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}
	return tw.Close()
}

// treeSize returns the total size of regular files under root in bytes
func treeSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}
