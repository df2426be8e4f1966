// Package discovery lists candidate language-model files in the places
// local inference tools conventionally keep them.
package discovery

import (
	"os"
	"path/filepath"
)

// HomeDirs are searched under the user's home directory, in order.
var HomeDirs = []string{
	".local/share/llama.cpp/models",
	"llama.cpp/models",
	"models",
	".local/share/models",
	"AI/models",
}

// Extensions are the model file suffixes recognized, in order.
var Extensions = []string{".gguf", ".bin", ".ggml"}

// Finder scans candidate directories. It never writes.
type Finder struct {
	Home string
	Cwd  string
}

// New returns a Finder rooted at the current user's home and working directory.
// Either may be empty when unavailable; it is then skipped.
func New() Finder {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return Finder{Home: home, Cwd: cwd}
}

// Dirs returns the candidate directories in search order.
func (f Finder) Dirs() []string {
	var dirs []string
	if f.Home != "" {
		for _, d := range HomeDirs {
			dirs = append(dirs, filepath.Join(f.Home, filepath.FromSlash(d)))
		}
	}
	if f.Cwd != "" {
		dirs = append(dirs, filepath.Join(f.Cwd, "models"))
	}
	return dirs
}

// Find returns every model file found. Directory order defines result order;
// a directory that is missing or unreadable is skipped.
func (f Finder) Find() []string {
	var models []string
	for _, dir := range f.Dirs() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		for _, ext := range Extensions {
			matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
			if err != nil {
				continue
			}
			for _, m := range matches {
				if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
					models = append(models, m)
				}
			}
		}
	}
	return models
}
