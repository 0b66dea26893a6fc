package tracker

import "github.com/helmcode/inr-assistant/pkg/model"

// Trend labels.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Summary describes the measurement history against the target range.
type Summary struct {
	Count       int               `json:"count" yaml:"count"`
	Average     float64           `json:"average" yaml:"average"`
	Minimum     float64           `json:"minimum" yaml:"minimum"`
	Maximum     float64           `json:"maximum" yaml:"maximum"`
	Current     float64           `json:"current" yaml:"current"`
	Trend       string            `json:"trend" yaml:"trend"`
	InRange     int               `json:"inRange" yaml:"inRange"`
	InRangeRate float64           `json:"inRangeRate" yaml:"inRangeRate"`
	Target      model.TargetRange `json:"target" yaml:"target"`
}

// Summarize computes statistics over all measurements.
func (s *State) Summarize() Summary {
	sum := Summary{Target: s.TargetOrDefault(), Trend: TrendStable}
	if s == nil || len(s.Measurements) == 0 {
		return sum
	}

	values := make([]float64, len(s.Measurements))
	for i, m := range s.Measurements {
		values[i] = m.INR
		if sum.Target.Contains(m.INR) {
			sum.InRange++
		}
	}

	sum.Count = len(values)
	sum.Average, sum.Maximum, sum.Minimum, sum.Current = calculateStats(values)
	sum.Trend = calculateTrend(values)
	sum.InRangeRate = float64(sum.InRange) / float64(sum.Count)
	return sum
}

// calculateStats calculates basic statistics for INR values
func calculateStats(values []float64) (avg, peak, min, current float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	total := 0.0
	peak = values[0]
	min = values[0]
	current = values[len(values)-1]

	for _, v := range values {
		total += v
		if v > peak {
			peak = v
		}
		if v < min {
			min = v
		}
	}

	avg = total / float64(len(values))
	return avg, peak, min, current
}

// calculateTrend compares the latest value with the first one using a 10% band
func calculateTrend(values []float64) string {
	if len(values) < 2 {
		return TrendStable
	}

	first := values[0]
	last := values[len(values)-1]
	diff := last - first

	if diff > first*0.1 {
		return TrendIncreasing
	} else if diff < -first*0.1 {
		return TrendDecreasing
	}
	return TrendStable
}
