// Package workspace manages the directory a single job works in.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Workspace is either a caller-chosen persistent directory or a
// process-owned temporary directory that Release deletes.
type Workspace struct {
	Dir  string
	Temp bool
}

// Persistent wraps an existing or to-be-created user directory.
func Persistent(dir string) (*Workspace, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dir, err)
	}
	return &Workspace{Dir: dir}, nil
}

// NewTemp allocates a fresh temporary directory.
func NewTemp(pattern string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("create temporary workspace: %w", err)
	}
	return &Workspace{Dir: dir, Temp: true}, nil
}

// Release removes a temporary workspace. Persistent workspaces are left alone.
// Safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || !w.Temp || w.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.Dir, err)
	}
	w.Dir = ""
	return nil
}

// Path joins name onto the workspace directory.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// FileState identifies one version of a file.
type FileState struct {
	Size    int64
	ModTime int64
}

// Snapshot maps file names to their state for regular files in dir whose
// extension matches ext (any file when ext is empty).
type Snapshot map[string]FileState

// Take records the regular files in dir. A missing dir yields an empty snapshot.
func Take(dir, ext string) (Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil
		}
		return nil, err
	}

	snap := make(Snapshot, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snap[e.Name()] = FileState{Size: info.Size(), ModTime: info.ModTime().UnixNano()}
	}
	return snap, nil
}

// Changed returns, sorted, the names in after that are absent from s or
// whose state differs.
func (s Snapshot) Changed(after Snapshot) []string {
	var names []string
	for name, st := range after {
		if prev, ok := s[name]; !ok || prev != st {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Added returns, sorted, the names in after that are absent from s.
func (s Snapshot) Added(after Snapshot) []string {
	var names []string
	for name := range after {
		if _, ok := s[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// CopyFile copies src to dst through a temporary sibling so dst is either the
// complete copy or untouched.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write destination: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write destination: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod destination: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move destination into place: %w", err)
	}
	return nil
}
