// pkg/env/library.go
package env

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FindLibrary searches dirs for a library by name.
// Returns the first match, shared libraries before static ones.
func FindLibrary(fsys afero.Fs, targetOS string, dirs []string, name string) *Library {
	static := make(map[string]bool)
	for _, ext := range GetStaticLibraryExtensions(targetOS) {
		static[ext] = true
	}

	for _, dir := range dirs {
		for _, ext := range GetLibraryExtensions(targetOS) {
			// Try lib{name}{ext} pattern (e.g., libz.so)
			filename := "lib" + name + ext
			if targetOS == "windows" {
				filename = name + ext
			}
			fullPath := filepath.Join(dir, filename)

			if fileExists(fsys, fullPath) {
				return &Library{
					Name:     name,
					Path:     fullPath,
					Type:     ext,
					IsStatic: static[ext],
				}
			}

			// Try versioned: lib{name}{ext}.* (e.g., libz.so.1)
			matches, _ := afero.Glob(fsys, filepath.Join(dir, filename+".*"))
			if len(matches) > 0 {
				sort.Strings(matches)
				return &Library{
					Name:     name,
					Path:     matches[0],
					Type:     ext,
					IsStatic: static[ext],
				}
			}
		}
	}

	return nil
}

// FindAllLibraries returns every library file found in dirs
func FindAllLibraries(fsys afero.Fs, targetOS string, dirs []string) []*Library {
	var libraries []*Library
	seen := make(map[string]bool)
	extensions := GetLibraryExtensions(targetOS)

	for _, dir := range dirs {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()

			for _, ext := range extensions {
				if !strings.HasSuffix(name, ext) && !strings.Contains(name, ext+".") {
					continue
				}
				fullPath := filepath.Join(dir, name)
				if seen[fullPath] {
					break
				}
				seen[fullPath] = true

				libName := strings.TrimPrefix(name, "lib")
				if idx := strings.Index(libName, ext); idx > 0 {
					libName = libName[:idx]
				}

				libraries = append(libraries, &Library{
					Name:     libName,
					Path:     fullPath,
					Type:     ext,
					IsStatic: ext == ".a" || ext == ".lib",
				})
				break
			}
		}
	}

	return libraries
}

func fileExists(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}
