package watcher

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is one job file. Unset fields fall back to the watch defaults.
type Manifest struct {
	URL       string `yaml:"url"`
	SRT       *bool  `yaml:"srt"`
	Summarize *bool  `yaml:"summarize"`
	Docx      *bool  `yaml:"docx"`
	KeepAudio *bool  `yaml:"keep_audio"`
	Language  string `yaml:"language"`
	LLMPath   string `yaml:"llm_path"`
}

// IsJobFile reports whether path has a job file extension.
func IsJobFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".url", ".yaml", ".yml":
		return !strings.HasPrefix(filepath.Base(path), ".")
	}
	return false
}

// JobName names a job after its file, extension included ("talk.url" becomes
// "talk_url"), so two job files in one inbox never share a name.
func JobName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext) + "_" + strings.ToLower(strings.TrimPrefix(ext, "."))
}

// LoadManifest reads a .url or YAML job file.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read job file: %w", err)
	}

	var m Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".url":
		m.URL = parseURLFile(data)
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Manifest{}, fmt.Errorf("parse job file %s: %w", filepath.Base(path), err)
		}
	default:
		return Manifest{}, fmt.Errorf("unsupported job file %s", filepath.Base(path))
	}

	m.URL = strings.TrimSpace(m.URL)
	if m.URL == "" {
		return Manifest{}, fmt.Errorf("job file %s has no url", filepath.Base(path))
	}
	return m, nil
}

// parseURLFile returns the first non-empty line that is not a comment.
// Internet shortcut files ([InternetShortcut] / URL=...) are accepted too.
func parseURLFile(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "URL="); ok {
			return rest
		}
		return line
	}
	return ""
}
