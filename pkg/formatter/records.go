package formatter

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/helmcode/inr-assistant/pkg/admin"
	"github.com/helmcode/inr-assistant/pkg/model"
	"github.com/helmcode/inr-assistant/pkg/tracker"
)

const userDateLayout = "2006-01-02"

// History is the machine-readable form of a measurement listing.
type History struct {
	Measurements []model.Measurement `json:"measurements" yaml:"measurements"`
	Summary      tracker.Summary     `json:"summary" yaml:"summary"`
}

// DisplayMeasurements prints the history with an in-range marker per reading.
func DisplayMeasurements(w io.Writer, s *tracker.State, format string) error {
	ms := s.Measurements
	if ms == nil {
		ms = []model.Measurement{}
	}
	sum := s.Summarize()
	if done, err := encode(w, History{Measurements: ms, Summary: sum}, format); done {
		return err
	}

	bold := color.New(color.Bold)
	fmt.Fprintln(w)
	bold.Fprintf(w, "📈 INR HISTORY (target %.1f-%.1f)\n\n", sum.Target.Min, sum.Target.Max)
	if len(ms) == 0 {
		fmt.Fprintln(w, "   No measurements recorded")
		return nil
	}

	fmt.Fprintf(w, "   %-10s  %5s  %8s  %s\n", "DATE", "INR", "DOSE", "NOTE")
	for _, m := range ms {
		inr := fmt.Sprintf("%5.2f", m.INR)
		if sum.Target.Contains(m.INR) {
			inr = color.GreenString("%s", inr)
		} else {
			inr = color.RedString("%s", inr)
		}
		fmt.Fprintf(w, "   %-10s  %s  %6.2fmg  %s\n", m.Date, inr, m.Dose, m.Note)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "   Average %.2f · Min %.2f · Max %.2f · Trend %s\n", sum.Average, sum.Minimum, sum.Maximum, sum.Trend)
	fmt.Fprintf(w, "   In range: %d/%d (%.0f%%)\n", sum.InRange, sum.Count, sum.InRangeRate*100)
	return nil
}

// DisplayUsers prints the administrator's user list.
func DisplayUsers(w io.Writer, users []model.UserRecord, format string) error {
	if users == nil {
		users = []model.UserRecord{}
	}
	if done, err := encode(w, users, format); done {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return nil
	}
	fmt.Fprintf(w, "%-28s  %-20s  %-30s  %s\n", "ID", "NAME", "EMAIL", "REGISTERED")
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = "n/a"
		}
		registered := "n/a"
		if !u.CreatedAt.IsZero() {
			registered = u.CreatedAt.Local().Format(userDateLayout)
		}
		fmt.Fprintf(w, "%-28s  %-20s  %-30s  %s\n", u.ID, name, u.Email, registered)
	}
	return nil
}

// DisplayNotification prints an admin action result with the color of its level.
func DisplayNotification(w io.Writer, n admin.Notification) {
	switch n.Level {
	case admin.LevelSuccess:
		fmt.Fprintf(w, "%s %s\n", color.GreenString("✅"), n.Message)
	case admin.LevelError:
		fmt.Fprintf(w, "%s %s\n", color.RedString("❌"), n.Message)
	default:
		fmt.Fprintf(w, "%s %s\n", color.BlueString("ℹ️ "), n.Message)
	}
}

// Setting is one resolved configuration key.
type Setting struct {
	Key    string `json:"key" yaml:"key"`
	Value  string `json:"value" yaml:"value"`
	Source string `json:"source" yaml:"source"`
}

// DisplaySettings prints resolved configuration with the layer each value came from.
func DisplaySettings(w io.Writer, settings []Setting, format string) error {
	if done, err := encode(w, settings, format); done {
		return err
	}
	width := 0
	for _, s := range settings {
		if len(s.Key) > width {
			width = len(s.Key)
		}
	}
	for _, s := range settings {
		value := s.Value
		if value == "" {
			value = color.HiBlackString("(unset)")
		}
		fmt.Fprintf(w, "%-*s  %s  %s\n", width, s.Key, value, color.HiBlackString("%s", s.Source))
	}
	return nil
}

// DisplayValidation prints configuration errors and warnings.
func DisplayValidation(w io.Writer, errs, warnings []string) {
	for _, e := range errs {
		fmt.Fprintf(w, "%s %s\n", color.RedString("❌"), e)
	}
	for _, warn := range warnings {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("⚠️ "), warn)
	}
	if len(errs) == 0 {
		fmt.Fprintf(w, "%s %s\n", color.GreenString("✅"), "Configuration is valid")
	}
}
