package llm

import (
	"strings"

	"github.com/helmcode/inr-assistant/pkg/config"
)

// Key kinds reported by KeyKind.
const (
	KeyServiceAccount = "service-account"
	KeyStandard       = "standard"
)

// KeyKind classifies an accepted OpenAI key for logging.
func KeyKind(apiKey string) string {
	if strings.HasPrefix(apiKey, "sk-svcacct-") {
		return KeyServiceAccount
	}
	return KeyStandard
}

// NewFromConfig builds the OpenAI client for the resolved AI settings.
// REQUEST_TIMEOUT bounds each HTTP exchange only when limits are enforced;
// otherwise the client keeps its own default. It returns a
// *config.ConfigurationError when the key is missing, still the placeholder,
// or malformed; callers then run fallback-only.
func NewFromConfig(cfg config.AIConfig) (*OpenAI, error) {
	if err := cfg.CheckAPIKey(); err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []Option{WithBaseURL(cfg.BaseURL)}
	if cfg.EnforceLimits {
		opts = append(opts, WithTimeout(cfg.RequestTimeout))
	}
	return NewOpenAIWithModel(strings.TrimSpace(cfg.APIKey), model, opts...), nil
}
