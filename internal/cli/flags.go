package cli

import (
	"github.com/nguyentantai21042004/ytscript/internal/processor"
	"github.com/nguyentantai21042004/ytscript/internal/summarizer"
	"github.com/spf13/pflag"
)

// jobFlags are the per-job switches shared by the root and watch commands.
type jobFlags struct {
	keepAudio bool
	srt       bool
	summarize bool
	docx      bool
	language  string
	maxTokens int
	maxChars  int
}

func (j *jobFlags) register(f *pflag.FlagSet) {
	f.BoolVar(&j.keepAudio, "keep-audio", false, "keep the downloaded audio next to the transcript")
	f.BoolVar(&j.srt, "srt", false, "also write SRT subtitles")
	f.BoolVar(&j.summarize, "summarize", false, "summarize the transcript with a local LLM")
	f.BoolVar(&j.docx, "docx", false, "also export the transcript and summary as .docx")
	f.StringVar(&j.language, "language", "", "language code hint, e.g. 'en' (default: auto-detect)")
	f.IntVar(&j.maxTokens, "max-tokens", summarizer.DefaultMaxTokens, "maximum summary length in tokens")
	f.IntVar(&j.maxChars, "max-chars", summarizer.DefaultMaxChars, "transcript characters fed to the summarizer")
}

func (j *jobFlags) request(url string) processor.Request {
	return processor.Request{
		URL:         url,
		KeepAudio:   j.keepAudio,
		WantSRT:     j.srt,
		WantSummary: j.summarize,
		WantDocx:    j.docx,
		Language:    j.language,
	}
}

func (j *jobFlags) processorOptions(verbose bool) processor.Options {
	return processor.Options{
		Verbose:   verbose,
		MaxChars:  j.maxChars,
		MaxTokens: j.maxTokens,
	}
}
