package fetcher

import (
	"context"

	"github.com/nguyentantai21042004/ytscript/internal/workspace"
)

// Fetcher extracts the audio track of a video URL into a WAV file.
type Fetcher interface {
	// Fetch downloads into dir. When dir is empty a temporary workspace is
	// allocated and returned; the caller must Release it.
	Fetch(ctx context.Context, url, dir string) (Audio, *workspace.Workspace, error)
}

// Audio is the fetched audio artifact.
type Audio struct {
	Path string
	Stem string
	// Created lists files this fetch added to the directory, the audio included.
	Created []string
}

// Options tune the downloader invocation.
type Options struct {
	Verbose bool
}
