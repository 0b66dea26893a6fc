package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// Placeholders substituted for absent values.
const (
	NotSpecified = "not specified"
	Unknown      = "unknown"
	NoData       = "no data"
)

// SystemPrompt fixes the assistant's persona and answer language.
func SystemPrompt(language string) string {
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	return fmt.Sprintf(`You are a medical AI assistant specializing in INR (International Normalized Ratio) management and Coumadin (warfarin) therapy. You analyze dietary patterns and their impact on INR levels. Provide responses in %s. Be precise and medical in your analysis.`, language)
}

// BuildDietPrompt renders the analysis request for the given diet and patient.
func BuildDietPrompt(diet model.DietInput, patient model.PatientContext) string {
	return fmt.Sprintf(`I am a patient treated with Coumadin with the following data:

**Patient data:**
- Age: %s
- Weight: %s kg
- Target INR range: %s-%s
- Current INR: %s
- Current dose: %s mg

**Diet today:**
%s

**Planned diet for tomorrow:**
%s

**Recent measurements:**
%s

Please analyze the impact of the diet on the INR and provide recommendations. Answer in JSON format:

{
    "vitaminKImpact": {
        "level": "low/medium/high",
        "score": 0-5,
        "description": "description of the vitamin K impact"
    },
    "dietaryInteractions": [
        {
            "type": "interaction type",
            "severity": "low/medium/high",
            "description": "description of the interaction",
            "recommendation": "recommendation"
        }
    ],
    "recommendations": [
        {
            "type": "recommendation type",
            "description": "description of the recommendation",
            "action": "recommended action"
        }
    ],
    "riskAssessment": [
        {
            "level": "low/medium/high",
            "description": "description of the risk",
            "impact": "impact on INR"
        }
    ],
    "doseAdjustment": {
        "adjustment": -1.0 to 1.0,
        "reason": "reason for the adjustment",
        "recommendedDose": "recommended dose"
    }
}`,
		intOr(patient.Age, NotSpecified),
		floatOr(patient.Weight, NotSpecified),
		formatFloat(patient.TargetRange.Min),
		formatFloat(patient.TargetRange.Max),
		floatOr(patient.CurrentINR, Unknown),
		floatOr(patient.CurrentDose, Unknown),
		textOr(diet.DietToday, NotSpecified),
		textOr(diet.DietTomorrow, NotSpecified),
		measurementLines(patient.RecentMeasurements),
	)
}

func measurementLines(ms []model.Measurement) string {
	if len(ms) == 0 {
		return NoData
	}
	lines := make([]string, 0, len(ms))
	for _, m := range ms {
		lines = append(lines, fmt.Sprintf("- %s: INR %s, dose %s mg", m.Date, formatFloat(m.INR), formatFloat(m.Dose)))
	}
	return strings.Join(lines, "\n")
}

func textOr(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return strings.TrimSpace(s)
}

func intOr(v *int, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return strconv.Itoa(*v)
}

func floatOr(v *float64, placeholder string) string {
	if v == nil {
		return placeholder
	}
	return formatFloat(*v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
