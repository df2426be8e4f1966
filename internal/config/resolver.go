package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/ytscript/internal/apperr"
	"github.com/spf13/viper"
)

// Layer identifies where a resolved value came from, lowest precedence first.
type Layer int

const (
	LayerDefault Layer = iota
	LayerEnv
	LayerUserFile
	LayerLocalFile
	LayerOverride
)

func (l Layer) String() string {
	switch l {
	case LayerDefault:
		return "default"
	case LayerEnv:
		return "env"
	case LayerUserFile:
		return "user-config"
	case LayerLocalFile:
		return "local-config"
	case LayerOverride:
		return "override"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

// Resolved is the outcome of layering. Warnings collects non-fatal I/O
// problems with config files.
type Resolved struct {
	Settings Settings
	Sources  map[string]Layer
	Warnings []string
}

// Resolver layers defaults, environment, the user config file, the working
// directory config file and caller overrides.
type Resolver struct {
	UserConfigPath  string
	LocalConfigPath string
	LookupEnv       func(string) (string, bool)
}

// NewResolver uses <user-config-root>/ytscript/config.json and ./config.json.
func NewResolver() *Resolver {
	userPath := ""
	if dir, err := os.UserConfigDir(); err == nil {
		userPath = filepath.Join(dir, "ytscript", "config.json")
	}

	return &Resolver{
		UserConfigPath:  userPath,
		LocalConfigPath: "config.json",
		LookupEnv:       os.LookupEnv,
	}
}

// Resolve produces the effective settings. Only a present but malformed
// config file is an error; path existence is not checked here.
func (r *Resolver) Resolve(overrides Settings) (Resolved, error) {
	res := Resolved{Sources: make(map[string]Layer)}

	res.apply(Settings{
		WhisperPath: DefaultWhisperPath,
		ModelPath:   DefaultModelPath,
	}, LayerDefault)

	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var env Settings
	if v, ok := lookup(EnvWhisperPath); ok {
		env.WhisperPath = v
	}
	if v, ok := lookup(EnvModelPath); ok {
		env.ModelPath = v
	}
	res.apply(env, LayerEnv)

	for _, f := range []struct {
		path  string
		layer Layer
	}{
		{r.UserConfigPath, LayerUserFile},
		{r.LocalConfigPath, LayerLocalFile},
	} {
		if f.path == "" {
			continue
		}
		s, err := res.readFile(f.path)
		if err != nil {
			return Resolved{}, err
		}
		res.apply(s, f.layer)
	}

	res.apply(overrides, LayerOverride)

	for _, p := range []*string{
		&res.Settings.WhisperPath,
		&res.Settings.ModelPath,
		&res.Settings.LLMPath,
		&res.Settings.LLMBinaryPath,
	} {
		expanded, err := ExpandPath(*p)
		if err != nil {
			res.Warnings = append(res.Warnings, err.Error())
			continue
		}
		*p = expanded
	}

	return res, nil
}

// apply copies every set field of s over the current settings.
func (res *Resolved) apply(s Settings, layer Layer) {
	set := func(key string, dst *string, v string) {
		if v == "" {
			return
		}
		*dst = v
		res.Sources[key] = layer
	}

	set("whisper_path", &res.Settings.WhisperPath, s.WhisperPath)
	set("model_path", &res.Settings.ModelPath, s.ModelPath)
	set("llm_path", &res.Settings.LLMPath, s.LLMPath)
	set("llm_binary_path", &res.Settings.LLMBinaryPath, s.LLMBinaryPath)
}

// readFile parses one JSON config layer. Missing files and unreadable files
// yield an empty layer; the latter also records a warning.
func (res *Resolved) readFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("failed to load config from %s: %v", path, err))
		}
		return Settings{}, nil
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Settings{}, apperr.Config(path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, apperr.Config(path, err)
	}
	return s, nil
}
