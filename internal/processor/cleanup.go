package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/ytscript/internal/workspace"
)

// place copies staged artifacts into dest. On the first copy error the
// copies already made are removed so no partial result survives.
func (p *implProcessor) place(ctx context.Context, j *job, files []string, dest string) ([]string, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", dest, err)
	}

	placed := make([]string, 0, len(files))
	for _, src := range files {
		dst := filepath.Join(dest, filepath.Base(src))
		p.logger.Debug(ctx, "Copying to output: %s -> %s", src, dst)

		if err := workspace.CopyFile(src, dst); err != nil {
			return nil, fmt.Errorf("copy %s to output: %w", filepath.Base(src), err)
		}
		j.track(dst)
		placed = append(placed, dst)
	}
	return placed, nil
}

// retainAudio drops the audio from a persistent directory unless it is kept,
// along with any other leftovers the downloader created.
func (p *implProcessor) retainAudio(ctx context.Context, keep bool, audioPath string, created []string) {
	for _, path := range created {
		if path == audioPath {
			continue
		}
		p.removeFile(ctx, path)
	}
	if !keep {
		p.removeFile(ctx, audioPath)
	}
}

// release removes a temporary workspace, logs warning if fails
func (p *implProcessor) release(ctx context.Context, ws *workspace.Workspace) {
	if ws == nil {
		return
	}
	dir := ws.Dir
	if err := ws.Release(); err != nil {
		p.logger.Warn(ctx, "Failed to release workspace %s: %v", dir, err)
		return
	}
	p.logger.Debug(ctx, "Released workspace: %s", dir)
}

// removeFile removes a file, logs warning if fails
func (p *implProcessor) removeFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn(ctx, "Failed to remove %s: %v", path, err)
		}
		return
	}
	p.logger.Debug(ctx, "Removed: %s", path)
}
