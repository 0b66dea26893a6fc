package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// Status tags the outcome of ParseAnalysis.
type Status int

const (
	// StatusOK means every expected field was present and decoded.
	StatusOK Status = iota
	// StatusNoObject means the text held no JSON object.
	StatusNoObject
	// StatusInvalidJSON means an object was found but is not valid JSON.
	StatusInvalidJSON
	// StatusMissingFields means a result was produced, but some fields were
	// absent or undecodable and carry their defaults.
	StatusMissingFields
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoObject:
		return "no_object"
	case StatusInvalidJSON:
		return "invalid_json"
	case StatusMissingFields:
		return "missing_fields"
	}
	return "unknown"
}

// Top-level fields of an analysis reply.
const (
	FieldVitaminKImpact      = "vitaminKImpact"
	FieldDietaryInteractions = "dietaryInteractions"
	FieldRecommendations     = "recommendations"
	FieldRiskAssessment      = "riskAssessment"
	FieldDoseAdjustment      = "doseAdjustment"
)

// ExpectedFields lists the top-level fields in contract order.
var ExpectedFields = []string{
	FieldVitaminKImpact,
	FieldDietaryInteractions,
	FieldRecommendations,
	FieldRiskAssessment,
	FieldDoseAdjustment,
}

// Outcome is the tagged result of ParseAnalysis. Result is non-nil exactly
// when Status is StatusOK or StatusMissingFields.
type Outcome struct {
	Status  Status
	Result  *model.AnalysisResult
	Missing []string
	Invalid []string
	Err     error
}

// HasResult reports whether a usable result was produced.
func (o Outcome) HasResult() bool {
	return o.Result != nil
}

// ParseAnalysis locates the first JSON object in a free-text reply and decodes
// it into an AnalysisResult. Each field is decoded independently; a missing or
// malformed field takes its documented default.
func ParseAnalysis(text string) Outcome {
	object, ok := ExtractObject(text)
	if !ok {
		return Outcome{Status: StatusNoObject, Err: fmt.Errorf("no JSON object found in response")}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(object), &fields); err != nil {
		return Outcome{Status: StatusInvalidJSON, Err: fmt.Errorf("decode response object: %w", err)}
	}

	out := Outcome{Status: StatusOK, Result: model.DefaultAnalysis()}
	for _, name := range ExpectedFields {
		raw, present := fields[name]
		if !present || isNull(raw) {
			out.Missing = append(out.Missing, name)
			continue
		}
		if err := decodeField(out.Result, name, raw); err != nil {
			out.Invalid = append(out.Invalid, name)
		}
	}
	out.Result.Normalize()

	if len(out.Missing) > 0 || len(out.Invalid) > 0 {
		out.Status = StatusMissingFields
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeField fills one field of r. On error r keeps the default for that field.
func decodeField(r *model.AnalysisResult, name string, raw json.RawMessage) error {
	switch name {
	case FieldVitaminKImpact:
		var v struct {
			Level       string     `json:"level"`
			Score       flexNumber `json:"score"`
			Description string     `json:"description"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		r.VitaminKImpact = model.VitaminKImpact{
			Level:       normalizeLevel(v.Level),
			Score:       clamp(float64(v.Score), 0, 5),
			Description: v.Description,
		}
	case FieldDietaryInteractions:
		var v []model.DietaryInteraction
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		for i := range v {
			v[i].Severity = normalizeLevel(v[i].Severity)
		}
		r.DietaryInteractions = v
	case FieldRecommendations:
		var v []model.Recommendation
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		r.Recommendations = v
	case FieldRiskAssessment:
		var v []model.Risk
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		for i := range v {
			v[i].Level = normalizeLevel(v[i].Level)
		}
		r.RiskAssessment = v
	case FieldDoseAdjustment:
		var v struct {
			Adjustment      flexNumber `json:"adjustment"`
			Reason          string     `json:"reason"`
			RecommendedDose flexString `json:"recommendedDose"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		r.DoseAdjustment = model.DoseAdjustment{
			Adjustment:      clamp(float64(v.Adjustment), -1, 1),
			Reason:          v.Reason,
			RecommendedDose: v.RecommendedDose.ptr(),
		}
	}
	return nil
}

func normalizeLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case model.LevelLow, model.LevelMedium, model.LevelHigh:
		return l
	}
	return model.LevelLow
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// flexNumber accepts a JSON number or a numeric string; null decodes to 0.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = flexNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number, got %s", string(data))
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", s)
	}
	*n = flexNumber(f)
	return nil
}

// flexString accepts a JSON string or number; null leaves it unset.
type flexString struct {
	value string
	set   bool
}

func (s *flexString) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = flexString{}
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString{value: str, set: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*s = flexString{value: strconv.FormatFloat(f, 'f', -1, 64), set: true}
	return nil
}

func (s flexString) ptr() *string {
	if !s.set {
		return nil
	}
	v := s.value
	return &v
}
