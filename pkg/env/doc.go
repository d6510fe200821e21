// pkg/env/doc.go
package env

/*
Package env knows how installed dependency packages are laid out on disk.

It handles:
  - Named package layouts (flat prefix, Debian multiarch, FHS)
  - Library file naming per target OS
  - Finding specific libraries within a package

Basic Usage:

    import "github.com/arc-language/urecipe/pkg/env"

    layout := env.GetPackageLayout(env.LayoutFlat)
    fmt.Println(layout.Libraries) // [lib]

    env.SharedLibraryName("linux", "z") // libz.so

    lib := env.FindLibrary(afero.NewOsFs(), "linux", []string{"/opt/zlib/lib"}, "z")
    if lib != nil {
        fmt.Printf("Found: %s at %s\n", lib.Name, lib.Path)
    }
*/
