package formatter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/inr-assistant/pkg/admin"
	"github.com/helmcode/inr-assistant/pkg/analyzer"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/tracker"
)

func init() {
	color.NoColor = true
}

func sampleOutcome() analyzer.Outcome {
	dose := "5.5mg"
	return analyzer.Outcome{
		Source: analyzer.SourceRemote,
		Result: &model.AnalysisResult{
			VitaminKImpact: model.VitaminKImpact{Level: model.LevelHigh, Score: 4.5, Description: "Large spinach portion"},
			DietaryInteractions: []model.DietaryInteraction{
				{Type: "leafy greens", Severity: model.LevelHigh, Description: "Spinach is rich in vitamin K", Recommendation: "Keep portions consistent"},
			},
			Recommendations: []model.Recommendation{{Type: "diet", Description: "Spread greens over the week", Action: "Plan meals"}},
			RiskAssessment:  []model.Risk{{Level: model.LevelMedium, Description: "INR may drop", Impact: "Clotting risk"}},
			DoseAdjustment:  model.DoseAdjustment{Adjustment: 0.1, Reason: "Higher vitamin K intake", RecommendedDose: &dose},
		},
	}
}

func TestDisplayAnalysisHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAnalysis(&buf, sampleOutcome(), FormatHuman))

	out := buf.String()
	assert.Contains(t, out, "VITAMIN K IMPACT: HIGH (4.5/5)")
	assert.Contains(t, out, "Large spinach portion")
	assert.Contains(t, out, "1. 🔴 leafy greens")
	assert.Contains(t, out, "Action: Plan meals")
	assert.Contains(t, out, "+10%")
	assert.Contains(t, out, "Recommended dose: 5.5mg")
	assert.NotContains(t, out, "Local analysis")
}

func TestDisplayAnalysisFallback(t *testing.T) {
	var buf bytes.Buffer
	out := analyzer.Outcome{Source: analyzer.SourceFallback, Reason: "offline mode", Result: model.FallbackAnalysis()}
	require.NoError(t, DisplayAnalysis(&buf, out, FormatHuman))

	assert.Contains(t, buf.String(), "Local analysis (offline mode)")
	assert.Contains(t, buf.String(), model.FallbackDescription)
	assert.Contains(t, buf.String(), "No change suggested")
}

func TestDisplayAnalysisMachineReadable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayAnalysis(&buf, sampleOutcome(), FormatJSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "remote", decoded["source"])
	result := decoded["result"].(map[string]interface{})
	assert.Equal(t, "high", result["vitaminKImpact"].(map[string]interface{})["level"])

	buf.Reset()
	require.NoError(t, DisplayAnalysis(&buf, sampleOutcome(), FormatYAML))
	var y map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, "remote", y["source"])
}

func TestDisplayMeasurements(t *testing.T) {
	s := &tracker.State{}
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	_, err := s.AddMeasurement(model.Measurement{Date: "2026-10-17", INR: 2.4, Dose: 5}, now)
	require.NoError(t, err)
	_, err = s.AddMeasurement(model.Measurement{Date: "2026-10-18", INR: 3.4, Dose: 5, Note: "after holiday"}, now)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DisplayMeasurements(&buf, s, FormatHuman))
	out := buf.String()
	assert.Contains(t, out, "target 2.0-3.0")
	assert.Contains(t, out, "2026-10-18")
	assert.Contains(t, out, "after holiday")
	assert.Contains(t, out, "In range: 1/2 (50%)")

	buf.Reset()
	require.NoError(t, DisplayMeasurements(&buf, s, FormatJSON))
	var h History
	require.NoError(t, json.Unmarshal(buf.Bytes(), &h))
	assert.Len(t, h.Measurements, 2)
	assert.Equal(t, 2, h.Summary.Count)
}

func TestDisplayMeasurementsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplayMeasurements(&buf, &tracker.State{}, FormatHuman))
	assert.Contains(t, buf.String(), "No measurements recorded")
}

func TestDisplayUsers(t *testing.T) {
	users := []model.UserRecord{
		{ID: "u1", DisplayName: "Dana", Email: "dana@example.com", CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		{ID: "u2", Email: "noam@example.com"},
	}
	var buf bytes.Buffer
	require.NoError(t, DisplayUsers(&buf, users, FormatHuman))
	out := buf.String()
	assert.Contains(t, out, "Dana")
	assert.Contains(t, out, "noam@example.com")
	assert.Contains(t, out, "n/a")

	buf.Reset()
	require.NoError(t, DisplayUsers(&buf, nil, FormatHuman))
	assert.Equal(t, "No users found\n", buf.String())

	buf.Reset()
	require.NoError(t, DisplayUsers(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestDisplayNotification(t *testing.T) {
	var buf bytes.Buffer
	DisplayNotification(&buf, admin.Notification{Level: admin.LevelError, Message: "Failed to delete user data"})
	assert.Equal(t, "❌ Failed to delete user data\n", buf.String())
}

func TestDisplaySettings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DisplaySettings(&buf, []Setting{
		{Key: "AI_MODEL", Value: "gpt-4", Source: "defaults"},
		{Key: "FIREBASE_PROJECT_ID", Value: "", Source: ""},
	}, FormatHuman))
	assert.Contains(t, buf.String(), "AI_MODEL             gpt-4  defaults")
	assert.Contains(t, buf.String(), "(unset)")
}

func TestDisplayValidation(t *testing.T) {
	var buf bytes.Buffer
	DisplayValidation(&buf, nil, []string{"OpenAI API key not configured - using fallback analysis"})
	assert.Contains(t, buf.String(), "Configuration is valid")
	assert.Contains(t, buf.String(), "using fallback analysis")

	buf.Reset()
	DisplayValidation(&buf, []string{"Invalid OpenAI API key format"}, nil)
	assert.NotContains(t, buf.String(), "Configuration is valid")
}

func TestWrapText(t *testing.T) {
	wrapped := wrapText("one two three four five", 12, "  ")
	assert.Equal(t, "  one two\n  three four\n  five", wrapped)
	assert.True(t, ValidFormat("yaml"))
	assert.False(t, ValidFormat("xml"))
}
