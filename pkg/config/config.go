package config

import (
	"fmt"
	"strings"
	"time"
)

// Store backends.
const (
	StoreFirestore = "firestore"
	StoreSQLite    = "sqlite"
	StoreMemory    = "memory"
)

// Auth modes.
const (
	AuthFirebase = "firebase"
	AuthHeader   = "header"
)

// APIKeyPlaceholder is the value shipped in sample configuration files.
const APIKeyPlaceholder = "your-openai-api-key-here"

// DefaultAdminEmail is the single administrator address unless ADMIN_EMAIL overrides it.
const DefaultAdminEmail = "admin@inr-assistant.app"

type Config struct {
	Env        string
	LogLevel   string
	AdminEmail string
	Firebase   FirebaseConfig
	AI         AIConfig
	Store      StoreConfig
	Server     ServerConfig
}

type FirebaseConfig struct {
	APIKey            string `json:"apiKey" yaml:"apiKey"`
	AuthDomain        string `json:"authDomain" yaml:"authDomain"`
	ProjectID         string `json:"projectId" yaml:"projectId"`
	StorageBucket     string `json:"storageBucket" yaml:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId" yaml:"messagingSenderId"`
	AppID             string `json:"appId" yaml:"appId"`
	MeasurementID     string `json:"measurementId" yaml:"measurementId"`
	CredentialsFile   string `json:"credentialsFile,omitempty" yaml:"credentialsFile,omitempty"`
}

type AIConfig struct {
	APIKey               string
	BaseURL              string
	Model                string
	MaxTokens            int
	Temperature          float64
	FallbackToMock       bool
	EnableCostLimits     bool
	MaxCostPerAnalysis   float64
	RequestTimeout       time.Duration
	RetryAttempts        int
	EnableRateLimiting   bool
	MaxRequestsPerMinute int
	ResponseLanguage     string

	// EnforceLimits turns the cost, rate and timeout settings from
	// observed thresholds into hard limits on remote calls.
	EnforceLimits bool
}

type StoreConfig struct {
	Backend    string
	SQLitePath string
}

type ServerConfig struct {
	Addr     string
	AuthMode string
}

// CheckAPIKey reports why the OpenAI key cannot be used, or nil when it can.
func (c AIConfig) CheckAPIKey() error {
	key := strings.TrimSpace(c.APIKey)
	switch {
	case key == "":
		return &ConfigurationError{Field: KeyOpenAIAPIKey, Reason: "not configured"}
	case key == APIKeyPlaceholder:
		return &ConfigurationError{Field: KeyOpenAIAPIKey, Reason: "still set to the placeholder value"}
	case !strings.HasPrefix(key, "sk-"):
		return &ConfigurationError{Field: KeyOpenAIAPIKey, Reason: `invalid format, should start with "sk-"`}
	}
	return nil
}

// MaskedAPIKey returns a printable form of the key.
func (c AIConfig) MaskedAPIKey() string {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:10] + "..."
}

// ConfigurationError reports a missing or malformed setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Field, e.Reason)
}

// Validation is the outcome of Validate. Errors block the affected feature; warnings only degrade it.
type Validation struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were found.
func (v Validation) OK() bool {
	return len(v.Errors) == 0
}

// Validate checks the resolved configuration.
func (c *Config) Validate() Validation {
	var v Validation

	if c.Store.Backend == StoreFirestore {
		if c.Firebase.APIKey == "" {
			v.Errors = append(v.Errors, "Firebase API key not configured")
		}
		if c.Firebase.ProjectID == "" {
			v.Errors = append(v.Errors, "Firebase project id not configured")
		}
	} else if c.Server.AuthMode == AuthFirebase && c.Firebase.ProjectID == "" {
		v.Warnings = append(v.Warnings, "Firebase project id not configured - the API server cannot verify ID tokens")
	}

	switch c.Store.Backend {
	case StoreFirestore, StoreSQLite, StoreMemory:
	default:
		v.Errors = append(v.Errors, fmt.Sprintf("unsupported store backend %q (supported: firestore, sqlite, memory)", c.Store.Backend))
	}

	switch c.Server.AuthMode {
	case AuthFirebase, AuthHeader:
	default:
		v.Errors = append(v.Errors, fmt.Sprintf("unsupported auth mode %q (supported: firebase, header)", c.Server.AuthMode))
	}

	if err := c.AI.CheckAPIKey(); err != nil {
		key := strings.TrimSpace(c.AI.APIKey)
		if key == "" || key == APIKeyPlaceholder {
			v.Warnings = append(v.Warnings, "OpenAI API key not configured - using fallback analysis")
		} else {
			v.Errors = append(v.Errors, "Invalid OpenAI API key format")
		}
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("temperature %.2f outside [0, 2]", c.AI.Temperature))
	}
	if c.AI.MaxTokens <= 0 {
		v.Errors = append(v.Errors, "MAX_TOKENS must be positive")
	}
	if c.AI.EnableRateLimiting && c.AI.MaxRequestsPerMinute <= 0 {
		v.Errors = append(v.Errors, "MAX_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.AI.EnableCostLimits && c.AI.MaxCostPerAnalysis <= 0 {
		v.Errors = append(v.Errors, "MAX_COST_PER_ANALYSIS must be positive when cost limits are enabled")
	}
	return v
}
