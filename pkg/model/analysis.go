package model

// Impact levels used by vitaminKImpact, dietaryInteractions and riskAssessment.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// AnalysisResult is the shared contract between the remote and local analyzers.
// Every field is always populated so renderers never have to nil-check.
type AnalysisResult struct {
	VitaminKImpact      VitaminKImpact       `json:"vitaminKImpact" yaml:"vitaminKImpact"`
	DietaryInteractions []DietaryInteraction `json:"dietaryInteractions" yaml:"dietaryInteractions"`
	Recommendations     []Recommendation     `json:"recommendations" yaml:"recommendations"`
	RiskAssessment      []Risk               `json:"riskAssessment" yaml:"riskAssessment"`
	DoseAdjustment      DoseAdjustment       `json:"doseAdjustment" yaml:"doseAdjustment"`
}

type VitaminKImpact struct {
	Level       string  `json:"level" yaml:"level"`
	Score       float64 `json:"score" yaml:"score"`
	Description string  `json:"description" yaml:"description"`
}

type DietaryInteraction struct {
	Type           string `json:"type" yaml:"type"`
	Severity       string `json:"severity" yaml:"severity"`
	Description    string `json:"description" yaml:"description"`
	Recommendation string `json:"recommendation" yaml:"recommendation"`
}

type Recommendation struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Action      string `json:"action" yaml:"action"`
}

type Risk struct {
	Level       string `json:"level" yaml:"level"`
	Description string `json:"description" yaml:"description"`
	Impact      string `json:"impact" yaml:"impact"`
}

// DoseAdjustment.Adjustment is a relative change in [-1.0, 1.0].
type DoseAdjustment struct {
	Adjustment      float64 `json:"adjustment" yaml:"adjustment"`
	Reason          string  `json:"reason" yaml:"reason"`
	RecommendedDose *string `json:"recommendedDose" yaml:"recommendedDose"`
}

// FallbackDescription is the vitamin K description carried by the local fallback result.
const FallbackDescription = "No significant vitamin K impact detected"

// DefaultVitaminKImpact is substituted when the field is absent.
func DefaultVitaminKImpact() VitaminKImpact {
	return VitaminKImpact{Level: LevelLow}
}

// DefaultDoseAdjustment is substituted when the field is absent.
func DefaultDoseAdjustment() DoseAdjustment {
	return DoseAdjustment{}
}

// DefaultAnalysis returns the all-empty result: zero score, empty lists, no adjustment.
func DefaultAnalysis() *AnalysisResult {
	return &AnalysisResult{
		VitaminKImpact:      DefaultVitaminKImpact(),
		DietaryInteractions: []DietaryInteraction{},
		Recommendations:     []Recommendation{},
		RiskAssessment:      []Risk{},
		DoseAdjustment:      DefaultDoseAdjustment(),
	}
}

// FallbackAnalysis is the neutral stand-in returned when real analysis is unavailable.
func FallbackAnalysis() *AnalysisResult {
	r := DefaultAnalysis()
	r.VitaminKImpact.Description = FallbackDescription
	return r
}

// Normalize replaces nil lists with empty ones so the result always serializes fully.
func (r *AnalysisResult) Normalize() {
	if r.DietaryInteractions == nil {
		r.DietaryInteractions = []DietaryInteraction{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []Recommendation{}
	}
	if r.RiskAssessment == nil {
		r.RiskAssessment = []Risk{}
	}
	if r.VitaminKImpact.Level == "" {
		r.VitaminKImpact.Level = LevelLow
	}
}
