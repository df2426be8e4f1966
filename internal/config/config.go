package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Defaults for the lowest configuration layer.
const (
	DefaultWhisperPath = "./whisper.cpp"
	DefaultModelPath   = "./models/ggml-base.en.bin"

	// DefaultDownloader is looked up on PATH.
	DefaultDownloader = "yt-dlp"
	// RecognizerBinaryName is the recognizer executable inside whisper_path.
	RecognizerBinaryName = "main"
	// SummarizerBinaryName is the default summarizer executable, located
	// beside the summarizer model.
	SummarizerBinaryName = "main"

	EnvWhisperPath = "WHISPER_CPP_PATH"
	EnvModelPath   = "WHISPER_MODEL_PATH"
)

// Settings holds the recognized configuration keys. An empty field is unset.
type Settings struct {
	WhisperPath   string `mapstructure:"whisper_path" json:"whisper_path,omitempty"`
	ModelPath     string `mapstructure:"model_path" json:"model_path,omitempty"`
	LLMPath       string `mapstructure:"llm_path" json:"llm_path,omitempty"`
	LLMBinaryPath string `mapstructure:"llm_binary_path" json:"llm_binary_path,omitempty"`
}

// ToolConfig holds the resolved paths the pipeline launches.
type ToolConfig struct {
	Downloader       string
	RecognizerBinary string
	RecognizerModel  string
	SummarizerBinary string
	SummarizerModel  string

	summarizerBinarySet bool
}

// Validate checks that the recognizer keys are set.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.WhisperPath) == "" {
		return fmt.Errorf("whisper_path is required")
	}
	if strings.TrimSpace(s.ModelPath) == "" {
		return fmt.Errorf("model_path is required")
	}
	return nil
}

// Tools derives the ToolConfig from resolved settings. Summarizer paths are
// filled only when a summarizer model is configured.
func (s Settings) Tools() ToolConfig {
	tc := ToolConfig{
		Downloader:       DefaultDownloader,
		RecognizerBinary: filepath.Join(s.WhisperPath, RecognizerBinaryName),
		RecognizerModel:  s.ModelPath,
		SummarizerModel:  s.LLMPath,
		SummarizerBinary: s.LLMBinaryPath,

		summarizerBinarySet: s.LLMBinaryPath != "",
	}
	if tc.SummarizerBinary == "" && tc.SummarizerModel != "" {
		tc.SummarizerBinary = filepath.Join(filepath.Dir(tc.SummarizerModel), SummarizerBinaryName)
	}
	return tc
}

// WithSummarizerModel swaps in a per-job summarizer model. The binary follows
// the model unless llm_binary_path was configured.
func (tc ToolConfig) WithSummarizerModel(model string) ToolConfig {
	if model == "" {
		return tc
	}
	tc.SummarizerModel = model
	if !tc.summarizerBinarySet {
		tc.SummarizerBinary = filepath.Join(filepath.Dir(model), SummarizerBinaryName)
	}
	return tc
}

// ExpandPath resolves a leading ~ and makes path absolute. Empty stays empty.
func ExpandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
