package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/inr-assistant/pkg/model"
)

var now = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func addAll(t *testing.T, s *State, ms ...model.Measurement) {
	t.Helper()
	for _, m := range ms {
		_, err := s.AddMeasurement(m, now)
		require.NoError(t, err)
	}
}

func TestAddMeasurementKeepsDateOrder(t *testing.T) {
	s := &State{}
	addAll(t, s,
		model.Measurement{Date: "2026-10-10", INR: 2.6, Dose: 5},
		model.Measurement{Date: "2026-10-01", INR: 2.1, Dose: 5},
		model.Measurement{Date: "2026-10-05", INR: 2.3, Dose: 5.5},
	)

	require.Len(t, s.Measurements, 3)
	assert.Equal(t, "2026-10-01", s.Measurements[0].Date)
	assert.Equal(t, "2026-10-10", s.Measurements[2].Date)
	for _, m := range s.Measurements {
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, now, m.CreatedAt)
	}
}

func TestAddMeasurementDefaultsDateToToday(t *testing.T) {
	s := &State{}
	m, err := s.AddMeasurement(model.Measurement{INR: 2.5, Dose: 5}, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", m.Date)
}

func TestAddMeasurementValidation(t *testing.T) {
	s := &State{}
	_, err := s.AddMeasurement(model.Measurement{Date: "19/10/2026", INR: 2.5}, now)
	assert.Error(t, err)
	_, err = s.AddMeasurement(model.Measurement{Date: "2026-10-19", INR: 0}, now)
	assert.Error(t, err)
	_, err = s.AddMeasurement(model.Measurement{Date: "2026-10-19", INR: 2, Dose: -1}, now)
	assert.Error(t, err)
	assert.Empty(t, s.Measurements)
}

func TestRemoveMeasurement(t *testing.T) {
	s := &State{}
	m, err := s.AddMeasurement(model.Measurement{Date: "2026-10-01", INR: 2.1, Dose: 5}, now)
	require.NoError(t, err)

	assert.True(t, s.RemoveMeasurement(m.ID))
	assert.False(t, s.RemoveMeasurement(m.ID))
	assert.Empty(t, s.Measurements)
}

func TestSetTarget(t *testing.T) {
	s := &State{}
	assert.Equal(t, model.DefaultTargetRange, s.TargetOrDefault())
	assert.Error(t, s.SetTarget(3, 2))
	assert.Error(t, s.SetTarget(0, 2))
	require.NoError(t, s.SetTarget(2.5, 3.5))
	assert.Equal(t, model.TargetRange{Min: 2.5, Max: 3.5}, s.TargetOrDefault())
}

func TestSetPatient(t *testing.T) {
	s := &State{}
	age := 200
	assert.Error(t, s.SetPatient(&age, nil))
	age = 70
	weight := 72.5
	require.NoError(t, s.SetPatient(&age, &weight))
	assert.Equal(t, 70, *s.Patient.Age)
}

func TestPatientContextEmptyState(t *testing.T) {
	pc := (&State{}).PatientContext()
	assert.Equal(t, model.DefaultTargetRange, pc.TargetRange)
	assert.Nil(t, pc.CurrentINR)
	assert.Nil(t, pc.CurrentDose)
	assert.Empty(t, pc.RecentMeasurements)

	var nilState *State
	assert.Equal(t, model.DefaultTargetRange, nilState.PatientContext().TargetRange)
}

func TestPatientContextUsesLatestAndRecentWindow(t *testing.T) {
	s := &State{}
	require.NoError(t, s.SetTarget(2.5, 3.5))
	addAll(t, s,
		model.Measurement{Date: "2026-10-01", INR: 2.1, Dose: 5},
		model.Measurement{Date: "2026-10-03", INR: 2.2, Dose: 5},
		model.Measurement{Date: "2026-10-05", INR: 2.7, Dose: 5.5},
		model.Measurement{Date: "2026-10-07", INR: 3.1, Dose: 6},
	)

	pc := s.PatientContext()

	assert.Equal(t, model.TargetRange{Min: 2.5, Max: 3.5}, pc.TargetRange)
	require.NotNil(t, pc.CurrentINR)
	assert.Equal(t, 3.1, *pc.CurrentINR)
	assert.Equal(t, 6.0, *pc.CurrentDose)
	require.Len(t, pc.RecentMeasurements, RecentWindow)
	assert.Equal(t, "2026-10-03", pc.RecentMeasurements[0].Date)
}

func TestINRDataRoundTrip(t *testing.T) {
	s := &State{}
	require.NoError(t, s.SetTarget(2, 3))
	addAll(t, s, model.Measurement{Date: "2026-10-01", INR: 2.1, Dose: 5})

	doc := s.INRData(now)
	assert.Equal(t, now, doc.UpdatedAt)

	back := FromINRData(doc)
	assert.Equal(t, s.Target, back.Target)
	assert.Equal(t, s.Measurements, back.Measurements)

	assert.NotNil(t, (&State{}).INRData(now).Measurements)
	assert.Empty(t, FromINRData(nil).Measurements)
}

func TestSummarize(t *testing.T) {
	s := &State{}
	addAll(t, s,
		model.Measurement{Date: "2026-10-01", INR: 2.0, Dose: 5},
		model.Measurement{Date: "2026-10-02", INR: 1.6, Dose: 5},
		model.Measurement{Date: "2026-10-03", INR: 2.6, Dose: 5},
		model.Measurement{Date: "2026-10-04", INR: 3.4, Dose: 5},
	)

	sum := s.Summarize()

	assert.Equal(t, 4, sum.Count)
	assert.InDelta(t, 2.4, sum.Average, 1e-9)
	assert.Equal(t, 1.6, sum.Minimum)
	assert.Equal(t, 3.4, sum.Maximum)
	assert.Equal(t, 3.4, sum.Current)
	assert.Equal(t, TrendIncreasing, sum.Trend)
	assert.Equal(t, 2, sum.InRange)
	assert.InDelta(t, 0.5, sum.InRangeRate, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := (&State{}).Summarize()
	assert.Zero(t, sum.Count)
	assert.Equal(t, TrendStable, sum.Trend)
}

func TestCalculateTrend(t *testing.T) {
	assert.Equal(t, TrendStable, calculateTrend([]float64{2.5}))
	assert.Equal(t, TrendStable, calculateTrend([]float64{2.5, 2.6}))
	assert.Equal(t, TrendDecreasing, calculateTrend([]float64{3.0, 2.5}))
}
