package tracker

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var windowPattern = regexp.MustCompile(`^(\d+)([dwmy])$`)

// ParseWindow turns a look-back window such as "14d", "6w", "3m" or "1y"
// into the first calendar date it covers.
func ParseWindow(window string, now time.Time) (time.Time, error) {
	matches := windowPattern.FindStringSubmatch(window)
	if len(matches) != 3 {
		return now, fmt.Errorf("invalid window format: %s (expected e.g. 30d, 6w, 3m, 1y)", window)
	}

	value, err := strconv.Atoi(matches[1])
	if err != nil || value <= 0 {
		return now, fmt.Errorf("invalid window value: %s", matches[1])
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch matches[2] {
	case "d":
		return day.AddDate(0, 0, -value), nil
	case "w":
		return day.AddDate(0, 0, -7*value), nil
	case "m":
		return day.AddDate(0, -value, 0), nil
	default:
		return day.AddDate(-value, 0, 0), nil
	}
}

// Since returns a copy of the state holding only measurements dated on or
// after from. Target and patient data are kept.
func (s *State) Since(from time.Time) *State {
	out := &State{Patient: s.Patient, Target: s.Target}
	cutoff := from.Format(DateLayout)
	for _, m := range s.Measurements {
		if m.Date >= cutoff {
			out.Measurements = append(out.Measurements, m)
		}
	}
	return out
}
