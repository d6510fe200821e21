// pkg/dist/nar.go
package dist

import (
	"bufio"
	"io"

	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix/nar"
)

// writeNarXz writes the Nix archive serialization of root, xz-compressed,
// in the form binary caches serve as <hash>.nar.xz
func writeNarXz(w io.Writer, root string) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(xw)
	if err := nar.DumpPath(bw, root); err != nil {
		xw.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		xw.Close()
		return err
	}
	return xw.Close()
}
