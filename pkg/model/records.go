package model

import "time"

// Collection names in the data store.
const (
	UsersCollection   = "users"
	INRDataCollection = "inrData"
)

// UserRecord is a document of the users collection, keyed by user id.
type UserRecord struct {
	ID          string    `json:"id" yaml:"id" firestore:"-"`
	DisplayName string    `json:"displayName" yaml:"displayName" firestore:"displayName"`
	Email       string    `json:"email" yaml:"email" firestore:"email"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt" firestore:"createdAt"`
}

// Label is the name shown to the administrator.
func (u UserRecord) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// INRData is a document of the inrData collection, keyed by user id.
type INRData struct {
	Measurements []Measurement `json:"measurements" yaml:"measurements" firestore:"measurements"`
	TargetRange  TargetRange   `json:"targetRange" yaml:"targetRange" firestore:"targetRange"`
	PatientInfo  PatientInfo   `json:"patientInfo" yaml:"patientInfo" firestore:"patientInfo"`
	UpdatedAt    time.Time     `json:"updatedAt" yaml:"updatedAt" firestore:"updatedAt"`
}
