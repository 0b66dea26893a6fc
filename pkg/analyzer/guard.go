package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/llm"
	"github.com/helmcode/inr-assistant/pkg/logger"
)

// Price is USD per 1K tokens.
type Price struct {
	Input  float64
	Output float64
}

// prices by model-name prefix; the longest matching prefix wins.
var prices = map[string]Price{
	"gpt-4":         {Input: 0.03, Output: 0.06},
	"gpt-4-turbo":   {Input: 0.01, Output: 0.03},
	"gpt-4o":        {Input: 0.0025, Output: 0.01},
	"gpt-4o-mini":   {Input: 0.00015, Output: 0.0006},
	"gpt-3.5-turbo": {Input: 0.0005, Output: 0.0015},
}

var pricePrefixes = func() []string {
	keys := make([]string, 0, len(prices))
	for k := range prices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}()

// PriceFor returns the price of model. Unknown models are priced as gpt-4.
func PriceFor(model string) Price {
	model = strings.ToLower(model)
	for _, prefix := range pricePrefixes {
		if strings.HasPrefix(model, prefix) {
			return prices[prefix]
		}
	}
	return prices["gpt-4"]
}

// EstimateTokens approximates the token count of text at four characters per token.
func EstimateTokens(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

// RejectedError reports that the guard refused a remote call.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "remote analysis rejected: " + e.Reason
}

// Guard checks remote calls against the rate and cost settings. By default
// the settings are observed only: an over-cost request is logged and sent
// unchanged, and no rate is tracked. With config.AIConfig.EnforceLimits the
// guard rejects such calls instead. It is safe for concurrent use.
type Guard struct {
	limiter   *rate.Limiter
	costLimit float64
	price     Price
	enforce   bool
	log       *zap.Logger
}

// NewGuard builds the guard for cfg. Disabled limits are neither logged nor enforced.
func NewGuard(cfg config.AIConfig, log *zap.Logger) *Guard {
	g := &Guard{price: PriceFor(cfg.Model), enforce: cfg.EnforceLimits, log: logger.OrNop(log)}
	if cfg.EnableCostLimits && cfg.MaxCostPerAnalysis > 0 {
		g.costLimit = cfg.MaxCostPerAnalysis
	}
	if g.enforce && cfg.EnableRateLimiting && cfg.MaxRequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.MaxRequestsPerMinute)), cfg.MaxRequestsPerMinute)
	}
	return g
}

// EstimateCost returns the worst-case USD cost of req.
func (g *Guard) EstimateCost(req llm.ChatRequest) float64 {
	return float64(promptTokens(req))*g.price.Input/1000 + float64(req.MaxTokens)*g.price.Output/1000
}

// Admit checks req against the limits. It never modifies the request. A
// rejected request does not consume rate.
func (g *Guard) Admit(req llm.ChatRequest) error {
	if g == nil {
		return nil
	}
	if g.costLimit > 0 {
		if cost := g.EstimateCost(req); cost > g.costLimit {
			if g.enforce {
				return &RejectedError{Reason: fmt.Sprintf("estimated cost exceeds limit of $%.4f", g.costLimit)}
			}
			g.log.Debug("estimated analysis cost exceeds MAX_COST_PER_ANALYSIS",
				zap.Float64("estimated_cost", cost),
				zap.Float64("limit", g.costLimit),
				zap.Int("max_tokens", req.MaxTokens),
			)
		}
	}

	if g.limiter != nil && !g.limiter.Allow() {
		return &RejectedError{Reason: "rate limit exceeded"}
	}
	return nil
}

func promptTokens(req llm.ChatRequest) int {
	total := 0
	for _, m := range req.Messages {
		total += EstimateTokens(m.Content)
	}
	return total
}
