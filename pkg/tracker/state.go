package tracker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/helmcode/inr-assistant/pkg/model"
)

// DateLayout is the calendar date format of measurements.
const DateLayout = "2006-01-02"

// RecentWindow is how many measurements accompany an analysis request.
const RecentWindow = 3

// State is one patient's tracking data. It is passed explicitly to the
// operations that need it; nothing here is global.
type State struct {
	Patient      model.PatientInfo
	Target       model.TargetRange
	Measurements []model.Measurement
}

// FromINRData builds state from a stored document. A nil document yields empty state.
func FromINRData(d *model.INRData) *State {
	s := &State{}
	if d == nil {
		return s
	}
	s.Patient = d.PatientInfo
	s.Target = d.TargetRange
	s.Measurements = append([]model.Measurement(nil), d.Measurements...)
	s.sort()
	return s
}

// INRData converts the state into its stored form.
func (s *State) INRData(now time.Time) *model.INRData {
	ms := s.Measurements
	if ms == nil {
		ms = []model.Measurement{}
	}
	return &model.INRData{
		Measurements: ms,
		TargetRange:  s.Target,
		PatientInfo:  s.Patient,
		UpdatedAt:    now.UTC(),
	}
}

// TargetOrDefault returns the configured target range, or 2.0-3.0 when unset.
func (s *State) TargetOrDefault() model.TargetRange {
	if s == nil || !s.Target.IsSet() {
		return model.DefaultTargetRange
	}
	return s.Target
}

// SetTarget validates and stores a target range.
func (s *State) SetTarget(minINR, maxINR float64) error {
	if minINR <= 0 || maxINR <= 0 {
		return fmt.Errorf("target range bounds must be positive")
	}
	if minINR >= maxINR {
		return fmt.Errorf("target minimum %.2f must be below maximum %.2f", minINR, maxINR)
	}
	s.Target = model.TargetRange{Min: minINR, Max: maxINR}
	return nil
}

// SetPatient replaces the optional demographic data.
func (s *State) SetPatient(age *int, weight *float64) error {
	if age != nil && (*age <= 0 || *age > 130) {
		return fmt.Errorf("age %d out of range", *age)
	}
	if weight != nil && (*weight <= 0 || *weight > 500) {
		return fmt.Errorf("weight %.1f out of range", *weight)
	}
	s.Patient = model.PatientInfo{Age: age, Weight: weight}
	return nil
}

// AddMeasurement validates m, assigns an id and keeps measurements ordered by date.
func (s *State) AddMeasurement(m model.Measurement, now time.Time) (model.Measurement, error) {
	m.Date = strings.TrimSpace(m.Date)
	if m.Date == "" {
		m.Date = now.Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, m.Date); err != nil {
		return model.Measurement{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", m.Date)
	}
	if m.INR <= 0 || m.INR > 15 {
		return model.Measurement{}, fmt.Errorf("INR %.2f out of range", m.INR)
	}
	if m.Dose < 0 || m.Dose > 50 {
		return model.Measurement{}, fmt.Errorf("dose %.2f mg out of range", m.Dose)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now.UTC()
	}

	s.Measurements = append(s.Measurements, m)
	s.sort()
	return m, nil
}

// RemoveMeasurement deletes the measurement with id and reports whether it existed.
func (s *State) RemoveMeasurement(id string) bool {
	for i, m := range s.Measurements {
		if m.ID == id {
			s.Measurements = append(s.Measurements[:i], s.Measurements[i+1:]...)
			return true
		}
	}
	return false
}

// Latest returns the most recent measurement.
func (s *State) Latest() (model.Measurement, bool) {
	if s == nil || len(s.Measurements) == 0 {
		return model.Measurement{}, false
	}
	return s.Measurements[len(s.Measurements)-1], true
}

// Recent returns up to n most recent measurements, oldest first.
func (s *State) Recent(n int) []model.Measurement {
	if s == nil || n <= 0 || len(s.Measurements) == 0 {
		return nil
	}
	if n > len(s.Measurements) {
		n = len(s.Measurements)
	}
	return append([]model.Measurement(nil), s.Measurements[len(s.Measurements)-n:]...)
}

// PatientContext assembles the analysis context from the current state.
func (s *State) PatientContext() model.PatientContext {
	pc := model.PatientContext{TargetRange: s.TargetOrDefault()}
	if s == nil {
		return pc
	}
	pc.Age = s.Patient.Age
	pc.Weight = s.Patient.Weight
	if latest, ok := s.Latest(); ok {
		inr, dose := latest.INR, latest.Dose
		pc.CurrentINR = &inr
		pc.CurrentDose = &dose
	}
	pc.RecentMeasurements = s.Recent(RecentWindow)
	return pc
}

// sort orders by date, then by creation time for same-day entries.
func (s *State) sort() {
	sort.SliceStable(s.Measurements, func(i, j int) bool {
		a, b := s.Measurements[i], s.Measurements[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
