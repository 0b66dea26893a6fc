package model

import "time"

// TargetRange is the therapeutic INR window.
type TargetRange struct {
	Min float64 `json:"min" yaml:"min" firestore:"min"`
	Max float64 `json:"max" yaml:"max" firestore:"max"`
}

// DefaultTargetRange is used when the patient has not set one.
var DefaultTargetRange = TargetRange{Min: 2.0, Max: 3.0}

// Contains reports whether inr lies inside the range, bounds included.
func (t TargetRange) Contains(inr float64) bool {
	return inr >= t.Min && inr <= t.Max
}

// IsSet reports whether both bounds were provided.
func (t TargetRange) IsSet() bool {
	return t.Min > 0 && t.Max > 0
}

// PatientInfo is optional demographic data.
type PatientInfo struct {
	Age    *int     `json:"age,omitempty" yaml:"age,omitempty" firestore:"age,omitempty"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty" firestore:"weight,omitempty"`
}

// Measurement is a single INR reading with the dose taken that day.
type Measurement struct {
	ID        string    `json:"id" yaml:"id" firestore:"id"`
	Date      string    `json:"date" yaml:"date" firestore:"date"`
	INR       float64   `json:"inr" yaml:"inr" firestore:"inr"`
	Dose      float64   `json:"dose" yaml:"dose" firestore:"dose"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty" firestore:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt" firestore:"createdAt"`
}

// PatientContext is supplied fresh to every analysis. Every field is optional.
type PatientContext struct {
	Age                *int          `json:"age,omitempty"`
	Weight             *float64      `json:"weight,omitempty"`
	TargetRange        TargetRange   `json:"targetRange"`
	CurrentINR         *float64      `json:"currentINR,omitempty"`
	CurrentDose        *float64      `json:"currentDose,omitempty"`
	RecentMeasurements []Measurement `json:"recentMeasurements,omitempty"`
}

// DietInput is today's and tomorrow's diet as free text.
type DietInput struct {
	DietToday    string `json:"dietToday"`
	DietTomorrow string `json:"dietTomorrow"`
}
