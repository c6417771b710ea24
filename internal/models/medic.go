package models

import "fmt"

// DutyStatus describes a medic's current availability.
type DutyStatus string

const (
	DutyOnDuty    DutyStatus = "On Duty"
	DutyEnRoute   DutyStatus = "En Route"
	DutyAvailable DutyStatus = "Available"
	DutyOffDuty   DutyStatus = "Off Duty"
)

// VoicePreferences holds scribe voice defaults for a medic.
type VoicePreferences struct {
	Language   string `json:"language"`
	AutoSubmit bool   `json:"autoSubmit"`
}

// MedicProfile is the full medic record shown on the field dashboard. It is
// a pure projection of the session's identity fields plus static defaults,
// recomputed on every read and never persisted on its own.
type MedicProfile struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Role             string           `json:"role"`
	Certification    string           `json:"certification"`
	Unit             string           `json:"unit"`
	DutyStatus       DutyStatus       `json:"dutyStatus"`
	VoicePreferences VoicePreferences `json:"voicePreferences"`
}

// ProfileFor derives the medic profile from a session. Returns false for
// hospital sessions and sessions without a resolved medic identity.
func ProfileFor(s *Session) (MedicProfile, bool) {
	medic, ok := s.Medic()
	if !ok {
		return MedicProfile{}, false
	}
	unit := medic.Unit
	if unit == "" && len(medic.ID) >= 2 {
		unit = fmt.Sprintf("Unit %s", medic.ID[len(medic.ID)-2:])
	}
	cert := medic.Certification
	if cert == "" {
		cert = "Paramedic"
	}
	return MedicProfile{
		ID:            medic.ID,
		Name:          medic.Name,
		Role:          "Paramedic",
		Certification: cert,
		Unit:          unit,
		DutyStatus:    DutyEnRoute,
		VoicePreferences: VoicePreferences{
			Language:   "English (US)",
			AutoSubmit: false,
		},
	}, true
}
