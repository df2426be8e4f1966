package transcriber

import "context"

// Transcriber runs the speech recognizer over one audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outDir string, opts Options) (Output, error)
}

// Options select the recognizer outputs for one run.
type Options struct {
	WantSRT bool
	// Language is a two-letter hint; empty means auto-detect.
	Language string
}

// Output holds the paths the recognizer produced. SRTPath is empty unless requested.
type Output struct {
	TxtPath string
	SRTPath string
}
