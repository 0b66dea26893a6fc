package analyzer

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"

	"github.com/helmcode/inr-assistant/pkg/config"
	"github.com/helmcode/inr-assistant/pkg/llm"
	"github.com/helmcode/inr-assistant/pkg/logger"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/tracker"
)

// Result sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Outcome reports a result together with where it came from.
type Outcome struct {
	Result *model.AnalysisResult `json:"result" yaml:"result"`
	Source string                `json:"source" yaml:"source"`
	Reason string                `json:"reason,omitempty" yaml:"reason,omitempty"`
	Err    error                 `json:"-" yaml:"-"`
}

// Service dispatches diet analyses to the remote analyzer when one is
// configured and to the local fallback otherwise. It is safe for concurrent
// use; overlapping calls are neither serialized nor de-duplicated.
type Service struct {
	analyzer       *Analyzer
	guard          *Guard
	fallbackToMock bool
	log            *zap.Logger
}

// NewService wires a service around client. A nil client means fallback-only.
func NewService(client llm.LLM, cfg config.AIConfig, log *zap.Logger) *Service {
	log = logger.OrNop(log)
	s := &Service{
		guard:          NewGuard(cfg, log),
		fallbackToMock: cfg.FallbackToMock,
		log:            log,
	}
	if client != nil {
		s.analyzer = New(client, cfg, log)
	}
	return s
}

// FromConfig builds the OpenAI client from cfg. An unusable key is logged and
// the service runs fallback-only.
func FromConfig(cfg config.AIConfig, log *zap.Logger) *Service {
	log = logger.OrNop(log)
	client, err := llm.NewFromConfig(cfg)
	if err != nil {
		log.Info("no valid OpenAI API key, using fallback analysis", zap.Error(err))
		return NewService(nil, cfg, log)
	}
	log.Info("AI analyzer initialized",
		zap.String("model", client.GetModel()),
		zap.String("key_kind", llm.KeyKind(cfg.APIKey)),
	)
	return NewService(client, cfg, log)
}

// RemoteEnabled reports whether a remote analyzer is configured.
func (s *Service) RemoteEnabled() bool {
	return s.analyzer != nil
}

// Model returns the remote model name, or "" when fallback-only.
func (s *Service) Model() string {
	if s.analyzer == nil {
		return ""
	}
	return s.analyzer.Model()
}

// PerformDietAnalysis analyses the given diets against the patient state. It
// always returns a fully populated result and never surfaces remote errors.
func (s *Service) PerformDietAnalysis(ctx context.Context, state *tracker.State, dietToday, dietTomorrow string) *model.AnalysisResult {
	return s.Perform(ctx, state, dietToday, dietTomorrow).Result
}

// Perform is PerformDietAnalysis with the source of the result reported.
func (s *Service) Perform(ctx context.Context, state *tracker.State, dietToday, dietTomorrow string) Outcome {
	patient := state.PatientContext()
	diet := model.DietInput{DietToday: dietToday, DietTomorrow: dietTomorrow}

	if s.analyzer == nil {
		return s.fallback(patient, "remote analysis not configured", nil)
	}

	req := s.analyzer.BuildRequest(diet, patient)
	if err := s.guard.Admit(req); err != nil {
		return s.fallback(patient, err.Error(), err)
	}

	result, err := s.analyzer.Execute(ctx, req)
	if err != nil {
		return s.fallback(patient, describe(err), err)
	}
	result.Normalize()
	return Outcome{Result: result, Source: SourceRemote}
}

// Offline skips the remote analyzer.
func (s *Service) Offline(state *tracker.State) Outcome {
	return s.fallback(state.PatientContext(), "offline mode", nil)
}

func (s *Service) fallback(patient model.PatientContext, reason string, err error) Outcome {
	if err != nil {
		if s.fallbackToMock {
			s.log.Warn("remote analysis failed, using fallback", zap.String("reason", reason), zap.Error(err))
		} else {
			s.log.Error("remote analysis failed and fallback is disabled; returning neutral result", zap.String("reason", reason), zap.Error(err))
		}
	} else {
		s.log.Debug("using fallback analysis", zap.String("reason", reason))
	}
	return Outcome{Result: LocalAnalysis(patient), Source: SourceFallback, Reason: reason, Err: err}
}

func describe(err error) string {
	var remoteErr *llm.RemoteAnalysisError
	var formatErr *ResponseFormatError
	var rejected *RejectedError
	var netErr net.Error
	switch {
	case errors.As(err, &remoteErr):
		return "remote service returned an error status"
	case errors.As(err, &formatErr):
		return "remote response had no usable JSON"
	case errors.As(err, &rejected):
		return rejected.Reason
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "remote request timed out"
	case errors.Is(err, context.Canceled):
		return "remote request canceled"
	}
	return "remote request failed"
}
