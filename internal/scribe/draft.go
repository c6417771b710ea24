// Package scribe implements the extraction bridge between free-form spoken
// input and the structured alert form. The speech transport itself belongs
// to an external collaborator; this package owns the draft state, the
// observed-fields merge rules, and the tool-calling contract.
package scribe

import (
	"time"

	"github.com/google/uuid"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

// Observation is a partial record of fields extracted from speech (or
// entered manually). Nil fields were not observed and are never cleared.
// Treatments is a full replacement list when present.
type Observation struct {
	PatientName   *string  `json:"patientName,omitempty"`
	PatientAge    *string  `json:"patientAge,omitempty"`
	Severity      *string  `json:"severity,omitempty"`
	EmergencyType *string  `json:"emergencyType,omitempty"`
	ETA           *int     `json:"eta,omitempty"`
	HeartRate     *int     `json:"heartRate,omitempty"`
	BloodPressure *string  `json:"bloodPressure,omitempty"`
	SpO2          *int     `json:"spo2,omitempty"`
	Treatments    []string `json:"treatments,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	ImageURL      *string  `json:"imageUrl,omitempty"`
}

func (o *Observation) hasVitals() bool {
	return o.HeartRate != nil || o.BloodPressure != nil || o.SpO2 != nil
}

// Draft is the in-progress, not-yet-transmitted alert form. It stays
// disjoint from the committed board until an explicit transmit.
type Draft struct {
	PatientName string               `json:"patientName"`
	PatientAge  string               `json:"patientAge"`
	Severity    models.Severity      `json:"severity"`
	Type        models.EmergencyType `json:"type"`
	ETA         int                  `json:"eta"`
	Vitals      []models.Vitals      `json:"vitals"`
	Treatments  []string             `json:"treatments"`
	Notes       string               `json:"notes"`
	ImageURL    string               `json:"imageUrl,omitempty"`
}

// NewDraft returns a draft with the standard form defaults.
func NewDraft() *Draft {
	return &Draft{
		Severity:   models.SeverityStable,
		Type:       models.EmergencyCardiac,
		ETA:        8,
		Vitals:     []models.Vitals{{}},
		Treatments: []string{"Oxygen", "IV Access"},
	}
}

// Apply merges an observation into the draft. Present fields overwrite;
// the vitals sub-fields merge into the most-recent snapshot in place
// (creating one when the history is empty) and stamp it with the given
// wall-clock time as a short local time string. Applying the same
// observation twice at the same time yields the same draft.
func (d *Draft) Apply(obs Observation, now time.Time) {
	if obs.PatientName != nil {
		d.PatientName = *obs.PatientName
	}
	if obs.PatientAge != nil {
		d.PatientAge = *obs.PatientAge
	}
	if obs.Severity != nil {
		d.Severity = models.ParseSeverity(*obs.Severity)
	}
	if obs.EmergencyType != nil {
		d.Type = models.ParseEmergencyType(*obs.EmergencyType)
	}
	if obs.ETA != nil {
		d.ETA = *obs.ETA
		if d.ETA < 0 {
			d.ETA = 0
		}
	}
	if obs.Treatments != nil {
		d.Treatments = obs.Treatments
	}
	if obs.Notes != nil {
		d.Notes = *obs.Notes
	}
	if obs.ImageURL != nil {
		d.ImageURL = *obs.ImageURL
	}

	if obs.hasVitals() {
		if len(d.Vitals) == 0 {
			d.Vitals = append(d.Vitals, models.Vitals{})
		}
		latest := &d.Vitals[len(d.Vitals)-1]
		if obs.HeartRate != nil {
			latest.HeartRate = *obs.HeartRate
		}
		if obs.BloodPressure != nil {
			latest.BloodPressure = *obs.BloodPressure
		}
		if obs.SpO2 != nil {
			latest.SpO2 = *obs.SpO2
		}
		latest.Timestamp = now.Format("15:04")
	}
}

// Commit finalizes the draft into an immutable alert: assigns id and medic
// provenance, stamps the creation time, and defaults any still-missing
// required field. The caller owns inserting the alert and resetting the
// draft afterwards.
func (d *Draft) Commit(medic models.MedicIdentity, now time.Time) models.Alert {
	alert := models.Alert{
		ID:            uuid.New().String(),
		PatientName:   d.PatientName,
		PatientAge:    d.PatientAge,
		Severity:      d.Severity,
		Type:          d.Type,
		ETA:           d.ETA,
		Vitals:        d.Vitals,
		Treatments:    d.Treatments,
		Notes:         d.Notes,
		ImageURL:      d.ImageURL,
		MedicID:       medic.ID,
		AmbulanceUnit: medic.Unit,
		Timestamp:     now.Format(time.RFC3339),
		Status:        models.StatusIncoming,
	}
	if alert.PatientName == "" {
		alert.PatientName = "Unknown"
	}
	if alert.PatientAge == "" {
		alert.PatientAge = "Unknown"
	}
	if alert.Severity == "" {
		alert.Severity = models.SeverityStable
	}
	if alert.Type == "" {
		alert.Type = models.EmergencyOther
	}
	if alert.ETA < 0 {
		alert.ETA = 0
	}
	if alert.Vitals == nil {
		alert.Vitals = []models.Vitals{}
	}
	if alert.Treatments == nil {
		alert.Treatments = []string{}
	}
	return alert
}
