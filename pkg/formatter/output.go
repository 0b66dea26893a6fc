package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/helmcode/inr-assistant/pkg/analyzer"
	"github.com/helmcode/inr-assistant/pkg/model"
)

// Output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidFormat reports whether f is a supported -o value.
func ValidFormat(f string) bool {
	switch f {
	case FormatHuman, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// encode writes v as JSON or YAML and reports whether format was machine-readable.
func encode(w io.Writer, v interface{}, format string) (bool, error) {
	switch format {
	case FormatJSON:
		output, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, string(output))
		return true, err
	case FormatYAML:
		output, err := yaml.Marshal(v)
		if err != nil {
			return true, err
		}
		_, err = fmt.Fprint(w, string(output))
		return true, err
	}
	return false, nil
}

// DisplayAnalysis formats and displays a diet analysis
func DisplayAnalysis(w io.Writer, out analyzer.Outcome, format string) error {
	if done, err := encode(w, out, format); done {
		return err
	}
	displayAnalysisHuman(w, out)
	return nil
}

func displayAnalysisHuman(w io.Writer, out analyzer.Outcome) {
	yellow := color.New(color.FgYellow, color.Bold)
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan, color.Bold)
	white := color.New(color.FgWhite, color.Bold)

	r := out.Result
	if r == nil {
		r = model.DefaultAnalysis()
	}

	fmt.Fprintln(w)

	if out.Source == analyzer.SourceFallback {
		fmt.Fprintf(w, "%s\n\n", color.HiBlackString("ℹ️  Local analysis (%s)", out.Reason))
	}

	// Vitamin K
	impact := r.VitaminKImpact
	getLevelColor(impact.Level).Fprintf(w, "🥬 VITAMIN K IMPACT: %s (%.1f/5)\n", strings.ToUpper(impact.Level), impact.Score)
	if impact.Description != "" {
		fmt.Fprintf(w, "   %s\n", impact.Description)
	}
	fmt.Fprintln(w)

	if len(r.DietaryInteractions) > 0 {
		yellow.Fprintln(w, "⚠️  DIETARY INTERACTIONS:")
		for i, in := range r.DietaryInteractions {
			fmt.Fprintf(w, "   %d. %s %s\n", i+1, getLevelIcon(in.Severity), in.Type)
			fmt.Fprintf(w, "      %s\n", in.Description)
			if in.Recommendation != "" {
				fmt.Fprintf(w, "      → %s\n", color.YellowString("%s", in.Recommendation))
			}
			fmt.Fprintln(w)
		}
	}

	if len(r.Recommendations) > 0 {
		cyan.Fprintln(w, "💡 RECOMMENDATIONS:")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(w, "   %d. [%s] %s\n", i+1, rec.Type, rec.Description)
			if rec.Action != "" {
				fmt.Fprintf(w, "      Action: %s\n", color.CyanString("%s", rec.Action))
			}
			fmt.Fprintln(w)
		}
	}

	if len(r.RiskAssessment) > 0 {
		white.Fprintln(w, "📊 RISK ASSESSMENT:")
		for i, risk := range r.RiskAssessment {
			fmt.Fprintf(w, "   %d. %s %s\n", i+1, getLevelIcon(risk.Level), risk.Description)
			if risk.Impact != "" {
				fmt.Fprintf(w, "      Impact: %s\n", risk.Impact)
			}
		}
		fmt.Fprintln(w)
	}

	dose := r.DoseAdjustment
	green.Fprintln(w, "💊 DOSE ADJUSTMENT:")
	if dose.Adjustment == 0 {
		fmt.Fprintln(w, "   No change suggested")
	} else {
		fmt.Fprintf(w, "   %+.0f%%\n", dose.Adjustment*100)
	}
	if dose.Reason != "" {
		fmt.Fprintln(w, wrapText(dose.Reason, 80, "   "))
	}
	if dose.RecommendedDose != nil {
		fmt.Fprintf(w, "   Recommended dose: %s\n", color.GreenString("%s", *dose.RecommendedDose))
	}
	fmt.Fprintln(w)

	// Footer
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "⚕️  %s\n", color.HiBlackString("Informational only. Never change your dose without consulting your physician."))
}

func getLevelColor(level string) *color.Color {
	switch strings.ToLower(level) {
	case model.LevelHigh:
		return color.New(color.FgRed, color.Bold)
	case model.LevelMedium:
		return color.New(color.FgYellow, color.Bold)
	case model.LevelLow:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgWhite, color.Bold)
	}
}

func getLevelIcon(level string) string {
	switch strings.ToLower(level) {
	case model.LevelHigh:
		return "🔴"
	case model.LevelMedium:
		return "🟡"
	case model.LevelLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func wrapText(text string, width int, indent string) string {
	var result strings.Builder
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := indent
		for _, word := range words {
			switch {
			case currentLine == indent:
				currentLine += word
			case len(currentLine)+len(word)+1 > width:
				result.WriteString(currentLine + "\n")
				currentLine = indent + word
			default:
				currentLine += " " + word
			}
		}
		result.WriteString(currentLine + "\n")
	}
	return strings.TrimSuffix(result.String(), "\n")
}
