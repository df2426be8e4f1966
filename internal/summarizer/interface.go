package summarizer

import "context"

// Summarizer produces an abstractive summary of a transcript file with a
// local language model.
type Summarizer interface {
	Summarize(ctx context.Context, transcriptPath string, opts Options) (Summary, error)
}

// Options locate the model and bound the prompt and the response.
type Options struct {
	Binary    string
	Model     string
	MaxChars  int
	MaxTokens int
}

// Summary is the extracted assistant response.
type Summary struct {
	Text      string
	Truncated bool
}

const (
	DefaultMaxChars  = 12000
	DefaultMaxTokens = 500

	TruncationMarker = "...[truncated]"
	AssistantTag     = "<|assistant|>"
)
