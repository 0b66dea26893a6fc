package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the local configuration file looked up in the working directory.
const DefaultFile = "inr-assistant.yaml"

// Values holds raw setting values keyed by setting name.
type Values map[string]string

// Source supplies one layer of configuration.
type Source interface {
	Name() string
	Load() (Values, error)
}

type staticSource struct {
	name   string
	values Values
}

// Static wraps fixed values, such as command-line overrides, as a Source.
func Static(name string, values Values) Source {
	return &staticSource{name: name, values: values}
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Load() (Values, error) {
	out := make(Values, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

// Defaults is the lowest layer. It carries no API key, so remote analysis stays disabled.
func Defaults() Source {
	return Static("defaults", Values{
		KeyOpenAIBaseURL:        "https://api.openai.com/v1",
		KeyAIModel:              "gpt-4",
		KeyMaxTokens:            "1000",
		KeyTemperature:          "0.3",
		KeyFallbackToMock:       "true",
		KeyEnableCostLimits:     "true",
		KeyMaxCostPerAnalysis:   "0.05",
		KeyRequestTimeout:       "30000",
		KeyRetryAttempts:        "2",
		KeyEnableRateLimiting:   "true",
		KeyMaxRequestsPerMinute: "10",
		KeyResponseLanguage:     "Hebrew",
		KeyEnforceLimits:        "false",
		KeyAppEnv:               "local",
		KeyLogLevel:             "info",
		KeyAdminEmail:           DefaultAdminEmail,
		KeyStoreBackend:         StoreSQLite,
		KeySQLitePath:           "inr-assistant.db",
		KeyServerAddr:           ":8080",
		KeyAuthMode:             AuthFirebase,
	})
}

// EnvSource reads the process environment, after loading optional dotenv files.
type EnvSource struct {
	DotenvFiles []string
}

// Env returns an EnvSource that loads ./.env when present.
func Env() *EnvSource {
	return &EnvSource{}
}

func (e *EnvSource) Name() string { return "environment" }

func (e *EnvSource) Load() (Values, error) {
	// Missing dotenv files are expected outside development.
	_ = godotenv.Load(e.DotenvFiles...)

	out := Values{}
	for _, key := range Keys {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			out[key] = strings.TrimSpace(v)
		}
	}
	return out, nil
}

// FileSource reads the local YAML configuration file.
//
// The file mirrors the browser build's constants:
//
//	firebase:
//	  apiKey: ...
//	  projectId: ...
//	ai:
//	  OPENAI_API_KEY: sk-...
//	  AI_MODEL: gpt-4
//	settings:
//	  STORE_BACKEND: sqlite
type FileSource struct {
	Path string
}

// File returns a FileSource for path, or DefaultFile when path is empty.
func File(path string) *FileSource {
	if path == "" {
		path = DefaultFile
	}
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file:" + f.Path }

type fileLayout struct {
	Firebase map[string]any `yaml:"firebase"`
	AI       map[string]any `yaml:"ai"`
	Settings map[string]any `yaml:"settings"`
}

func (f *FileSource) Load() (Values, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Values{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}

	var layout fileLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Path, err)
	}

	out := Values{}
	for field, v := range layout.Firebase {
		if key, ok := firebaseFileKeys[field]; ok {
			setValue(out, key, v)
		}
	}
	for key, v := range layout.AI {
		setValue(out, strings.ToUpper(key), v)
	}
	for key, v := range layout.Settings {
		setValue(out, strings.ToUpper(key), v)
	}
	return out, nil
}

func setValue(out Values, key string, v any) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s != "" {
		out[key] = s
	}
}
