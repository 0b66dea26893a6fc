package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Report records where each setting came from and what was skipped on the way.
type Report struct {
	Sources  []string
	Origins  map[string]string
	Warnings []string
}

// Log writes the resolution summary. Secret values are never logged.
func (r *Report) Log(log *zap.Logger) {
	if log == nil {
		return
	}
	counts := map[string]int{}
	for _, origin := range r.Origins {
		counts[origin]++
	}
	fields := make([]zap.Field, 0, len(r.Sources))
	for _, name := range r.Sources {
		fields = append(fields, zap.Int(name, counts[name]))
	}
	log.Info("configuration resolved", fields...)
	for _, w := range r.Warnings {
		log.Warn("configuration warning", zap.String("detail", w))
	}
}

type layer struct {
	name   string
	values Values
}

type resolver struct {
	layers []layer
	report *Report
}

// Resolve merges sources field by field. Sources are ordered from highest to
// lowest precedence; for every setting the first source holding a value that
// parses wins. Resolve never fails: unreadable sources and malformed values
// become warnings and the next layer is consulted.
func Resolve(sources ...Source) (*Config, *Report) {
	r := &resolver{report: &Report{Origins: map[string]string{}}}
	for _, src := range sources {
		values, err := src.Load()
		if err != nil {
			r.report.Warnings = append(r.report.Warnings, fmt.Sprintf("%s skipped: %v", src.Name(), err))
			continue
		}
		r.layers = append(r.layers, layer{name: src.Name(), values: values})
		r.report.Sources = append(r.report.Sources, src.Name())
	}

	cfg := &Config{
		Env:        r.str(KeyAppEnv),
		LogLevel:   strings.ToLower(r.str(KeyLogLevel)),
		AdminEmail: r.str(KeyAdminEmail),
		Firebase: FirebaseConfig{
			APIKey:            r.str(KeyFirebaseAPIKey),
			AuthDomain:        r.str(KeyFirebaseAuthDomain),
			ProjectID:         r.str(KeyFirebaseProjectID),
			StorageBucket:     r.str(KeyFirebaseStorageBucket),
			MessagingSenderID: r.str(KeyFirebaseMessagingSenderID),
			AppID:             r.str(KeyFirebaseAppID),
			MeasurementID:     r.str(KeyFirebaseMeasurementID),
			CredentialsFile:   r.str(KeyFirebaseCredentialsFile),
		},
		AI: AIConfig{
			APIKey:               r.str(KeyOpenAIAPIKey),
			BaseURL:              strings.TrimRight(r.str(KeyOpenAIBaseURL), "/"),
			Model:                r.str(KeyAIModel),
			MaxTokens:            r.integer(KeyMaxTokens),
			Temperature:          r.number(KeyTemperature),
			FallbackToMock:       r.boolean(KeyFallbackToMock),
			EnableCostLimits:     r.boolean(KeyEnableCostLimits),
			MaxCostPerAnalysis:   r.number(KeyMaxCostPerAnalysis),
			RequestTimeout:       time.Duration(r.integer(KeyRequestTimeout)) * time.Millisecond,
			RetryAttempts:        r.integer(KeyRetryAttempts),
			EnableRateLimiting:   r.boolean(KeyEnableRateLimiting),
			MaxRequestsPerMinute: r.integer(KeyMaxRequestsPerMinute),
			ResponseLanguage:     r.str(KeyResponseLanguage),
			EnforceLimits:        r.boolean(KeyEnforceLimits),
		},
		Store: StoreConfig{
			Backend:    strings.ToLower(r.str(KeyStoreBackend)),
			SQLitePath: r.str(KeySQLitePath),
		},
		Server: ServerConfig{
			Addr:     r.str(KeyServerAddr),
			AuthMode: strings.ToLower(r.str(KeyAuthMode)),
		},
	}
	return cfg, r.report
}

// Load resolves the standard layers: environment, the local file, defaults.
func Load(file string) (*Config, *Report) {
	return Resolve(Env(), File(file), Defaults())
}

// lookup walks the layers in order and returns the first value accepted by parse.
func (r *resolver) lookup(key string, parse func(string) error) {
	for _, l := range r.layers {
		raw, ok := l.values[key]
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := parse(strings.TrimSpace(raw)); err != nil {
			r.report.Warnings = append(r.report.Warnings, fmt.Sprintf("%s from %s ignored: %v", key, l.name, err))
			continue
		}
		r.report.Origins[key] = l.name
		return
	}
}

func (r *resolver) str(key string) string {
	var out string
	r.lookup(key, func(s string) error {
		out = s
		return nil
	})
	return out
}

func (r *resolver) integer(key string) int {
	var out int
	r.lookup(key, func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		out = v
		return nil
	})
	return out
}

func (r *resolver) number(key string) float64 {
	var out float64
	r.lookup(key, func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		out = v
		return nil
	})
	return out
}

func (r *resolver) boolean(key string) bool {
	var out bool
	r.lookup(key, func(s string) error {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", s)
		}
		out = v
		return nil
	})
	return out
}

// Value returns the printable value of key in the resolved configuration.
func (c *Config) Value(key string) string {
	switch key {
	case KeyFirebaseAPIKey:
		return c.Firebase.APIKey
	case KeyFirebaseAuthDomain:
		return c.Firebase.AuthDomain
	case KeyFirebaseProjectID:
		return c.Firebase.ProjectID
	case KeyFirebaseStorageBucket:
		return c.Firebase.StorageBucket
	case KeyFirebaseMessagingSenderID:
		return c.Firebase.MessagingSenderID
	case KeyFirebaseAppID:
		return c.Firebase.AppID
	case KeyFirebaseMeasurementID:
		return c.Firebase.MeasurementID
	case KeyFirebaseCredentialsFile:
		return c.Firebase.CredentialsFile
	case KeyOpenAIAPIKey:
		return c.AI.APIKey
	case KeyOpenAIBaseURL:
		return c.AI.BaseURL
	case KeyAIModel:
		return c.AI.Model
	case KeyMaxTokens:
		return strconv.Itoa(c.AI.MaxTokens)
	case KeyTemperature:
		return strconv.FormatFloat(c.AI.Temperature, 'f', -1, 64)
	case KeyFallbackToMock:
		return strconv.FormatBool(c.AI.FallbackToMock)
	case KeyEnableCostLimits:
		return strconv.FormatBool(c.AI.EnableCostLimits)
	case KeyMaxCostPerAnalysis:
		return strconv.FormatFloat(c.AI.MaxCostPerAnalysis, 'f', -1, 64)
	case KeyRequestTimeout:
		return strconv.FormatInt(c.AI.RequestTimeout.Milliseconds(), 10)
	case KeyRetryAttempts:
		return strconv.Itoa(c.AI.RetryAttempts)
	case KeyEnableRateLimiting:
		return strconv.FormatBool(c.AI.EnableRateLimiting)
	case KeyMaxRequestsPerMinute:
		return strconv.Itoa(c.AI.MaxRequestsPerMinute)
	case KeyResponseLanguage:
		return c.AI.ResponseLanguage
	case KeyEnforceLimits:
		return strconv.FormatBool(c.AI.EnforceLimits)
	case KeyAppEnv:
		return c.Env
	case KeyLogLevel:
		return c.LogLevel
	case KeyAdminEmail:
		return c.AdminEmail
	case KeyStoreBackend:
		return c.Store.Backend
	case KeySQLitePath:
		return c.Store.SQLitePath
	case KeyServerAddr:
		return c.Server.Addr
	case KeyAuthMode:
		return c.Server.AuthMode
	}
	return ""
}
