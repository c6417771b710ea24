package models

import (
	"strings"
	"time"
)

// Severity is the coarse triage classification for an incoming case.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeveritySerious  Severity = "Serious"
	SeverityStable   Severity = "Stable"
)

// EmergencyType categorizes the nature of the emergency.
type EmergencyType string

const (
	EmergencyCardiac     EmergencyType = "Cardiac"
	EmergencyTrauma      EmergencyType = "Trauma"
	EmergencyStroke      EmergencyType = "Stroke"
	EmergencyRespiratory EmergencyType = "Respiratory"
	EmergencyOther       EmergencyType = "Other"
)

// Status tracks an alert through the arrival lifecycle.
type Status string

const (
	StatusIncoming   Status = "Incoming"
	StatusArrived    Status = "Arrived"
	StatusHandedOver Status = "Handed Over"
)

// Vitals is a single point-in-time vitals snapshot.
type Vitals struct {
	HeartRate     int    `json:"heartRate"`
	BloodPressure string `json:"bloodPressure"`
	SpO2          int    `json:"spo2"`
	Timestamp     string `json:"timestamp"`
}

// Alert is a pre-arrival alert transmitted by a field medic.
type Alert struct {
	ID            string        `json:"id"`
	PatientName   string        `json:"patientName"`
	PatientAge    string        `json:"patientAge"`
	Severity      Severity      `json:"severity"`
	Type          EmergencyType `json:"type"`
	ETA           int           `json:"eta"` // minutes
	Vitals        []Vitals      `json:"vitals"`
	Treatments    []string      `json:"treatments"`
	Notes         string        `json:"notes"`
	MedicID       string        `json:"medicId"`
	AmbulanceUnit string        `json:"ambulanceUnit"`
	Timestamp     string        `json:"timestamp"`
	ImageURL      string        `json:"imageUrl,omitempty"`
	Status        Status        `json:"status"`
}

// NewAlert creates an Incoming alert with initialized provenance.
func NewAlert(id, medicID, unit string) *Alert {
	return &Alert{
		ID:            id,
		MedicID:       medicID,
		AmbulanceUnit: unit,
		Timestamp:     time.Now().Format(time.RFC3339),
		Status:        StatusIncoming,
	}
}

// NoVitals is the placeholder snapshot shown when an alert carries no
// vitals history yet.
var NoVitals = Vitals{
	BloodPressure: "--/--",
	Timestamp:     "--",
}

// LatestVitals returns the most recent vitals snapshot, or NoVitals and
// false when the history is empty.
func (a *Alert) LatestVitals() (Vitals, bool) {
	if len(a.Vitals) == 0 {
		return NoVitals, false
	}
	return a.Vitals[len(a.Vitals)-1], true
}

// SeverityRank orders severities for triage: lower sorts first.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeveritySerious:
		return 1
	default:
		return 2
	}
}

// CanTransition reports whether a status change is allowed. Status is a
// one-way gate: an alert never returns to Incoming, and Incoming may skip
// straight to Handed Over without an Arrived step.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusIncoming:
		return to == StatusArrived || to == StatusHandedOver
	case StatusArrived:
		return to == StatusHandedOver
	default:
		return false
	}
}

// ParseSeverity converts a string to Severity, defaulting to Stable.
func ParseSeverity(s string) Severity {
	switch strings.TrimSpace(s) {
	case "Critical":
		return SeverityCritical
	case "Serious":
		return SeveritySerious
	default:
		return SeverityStable
	}
}

// ParseEmergencyType converts a string to EmergencyType, defaulting to Other.
func ParseEmergencyType(s string) EmergencyType {
	switch strings.TrimSpace(s) {
	case "Cardiac":
		return EmergencyCardiac
	case "Trauma":
		return EmergencyTrauma
	case "Stroke":
		return EmergencyStroke
	case "Respiratory":
		return EmergencyRespiratory
	default:
		return EmergencyOther
	}
}

// ParseStatus converts a string to Status. The second return is false when
// the input names no known status.
func ParseStatus(s string) (Status, bool) {
	switch strings.TrimSpace(s) {
	case "Incoming":
		return StatusIncoming, true
	case "Arrived":
		return StatusArrived, true
	case "Handed Over":
		return StatusHandedOver, true
	default:
		return "", false
	}
}
