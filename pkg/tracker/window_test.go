package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helmcode/inr-assistant/pkg/model"
)

func TestParseWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		window string
		want   string
	}{
		{"1d", "2026-10-18"},
		{"30d", "2026-09-19"},
		{"2w", "2026-10-05"},
		{"3m", "2026-07-19"},
		{"1y", "2025-10-19"},
	}
	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			got, err := ParseWindow(tt.window, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}

	for _, bad := range []string{"", "30", "d", "0d", "5h", "-3d"} {
		_, err := ParseWindow(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestSince(t *testing.T) {
	s := &State{Target: model.TargetRange{Min: 2.5, Max: 3.5}}
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	for _, d := range []string{"2026-09-01", "2026-10-05", "2026-10-18"} {
		_, err := s.AddMeasurement(model.Measurement{Date: d, INR: 2.8, Dose: 5}, now)
		require.NoError(t, err)
	}

	recent := s.Since(time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))
	require.Len(t, recent.Measurements, 2)
	assert.Equal(t, "2026-10-05", recent.Measurements[0].Date)
	assert.Equal(t, s.Target, recent.Target)
	assert.Len(t, s.Measurements, 3)

	assert.Empty(t, s.Since(now.AddDate(0, 0, 1)).Measurements)
}
