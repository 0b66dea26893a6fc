package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/llm"
	"github.com/helmcode/inr-assistant/pkg/logger"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/parser"
	"github.com/helmcode/inr-assistant/pkg/prompts"
)

// ResponseFormatError is returned when the reply holds no usable JSON object.
type ResponseFormatError struct {
	Status parser.Status
	Reply  string
	Err    error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("unusable analysis response (%s): %v", e.Status, e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// Analyzer performs remote diet analysis through an LLM. It holds no
// per-call state; every Analyze call is independent.
type Analyzer struct {
	llm         llm.LLM
	maxTokens   int
	temperature float64
	language    string
	log         *zap.Logger
}

func New(client llm.LLM, cfg config.AIConfig, log *zap.Logger) *Analyzer {
	return &Analyzer{
		llm:         client,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		language:    cfg.ResponseLanguage,
		log:         logger.OrNop(log),
	}
}

// Model returns the remote model name.
func (a *Analyzer) Model() string {
	return a.llm.GetModel()
}

// BuildRequest renders the chat request for one analysis.
func (a *Analyzer) BuildRequest(diet model.DietInput, patient model.PatientContext) llm.ChatRequest {
	temperature := a.temperature
	return llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompts.SystemPrompt(a.language)},
			{Role: llm.RoleUser, Content: prompts.BuildDietPrompt(diet, patient)},
		},
		MaxTokens:   a.maxTokens,
		Temperature: &temperature,
	}
}

// Analyze issues one chat completion and parses the reply. It returns
// *llm.RemoteAnalysisError for a non-success status, *ResponseFormatError
// when the reply holds no valid JSON object, or the transport error.
func (a *Analyzer) Analyze(ctx context.Context, diet model.DietInput, patient model.PatientContext) (*model.AnalysisResult, error) {
	return a.Execute(ctx, a.BuildRequest(diet, patient))
}

// Execute sends a request built by BuildRequest.
func (a *Analyzer) Execute(ctx context.Context, req llm.ChatRequest) (*model.AnalysisResult, error) {
	a.log.Debug("requesting diet analysis",
		zap.String("model", a.llm.GetModel()),
		zap.Int("max_tokens", req.MaxTokens),
	)

	rawResp, err := a.llm.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM chat: %w", err)
	}

	out := parser.ParseAnalysis(rawResp)
	if !out.HasResult() {
		return nil, &ResponseFormatError{Status: out.Status, Reply: rawResp, Err: out.Err}
	}
	if out.Status == parser.StatusMissingFields {
		a.log.Warn("analysis response incomplete, defaults substituted",
			zap.Strings("missing", out.Missing),
			zap.Strings("invalid", out.Invalid),
		)
	}
	return out.Result, nil
}

// LocalAnalysis is the deterministic stand-in for remote analysis. It is a
// safe neutral result, not a clinical estimate, and never fails.
func LocalAnalysis(patient model.PatientContext) *model.AnalysisResult {
	return model.FallbackAnalysis()
}
