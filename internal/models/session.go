package models

// Role identifies the kind of actor holding a session.
type Role string

const (
	RoleMedic    Role = "MEDIC"
	RoleHospital Role = "HOSPITAL"
)

// ParseRole converts a string to Role. The second return is false when the
// input names no known role.
func ParseRole(s string) (Role, bool) {
	switch s {
	case "MEDIC":
		return RoleMedic, true
	case "HOSPITAL":
		return RoleHospital, true
	default:
		return "", false
	}
}

// MedicIdentity is the resolved identity of an authenticated medic.
type MedicIdentity struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Unit          string `json:"unit"`
	Certification string `json:"certification"`
}

// Session is the persisted record of the current actor. Hospital sessions
// carry no identity fields.
type Session struct {
	Role          Role   `json:"role"`
	MedicID       string `json:"medicId,omitempty"`
	MedicName     string `json:"medicName,omitempty"`
	Unit          string `json:"unit,omitempty"`
	Certification string `json:"certification,omitempty"`
}

// Medic returns the identity carried by a medic session, or false for
// hospital sessions and incomplete records.
func (s *Session) Medic() (MedicIdentity, bool) {
	if s == nil || s.Role != RoleMedic || s.MedicID == "" || s.MedicName == "" {
		return MedicIdentity{}, false
	}
	return MedicIdentity{
		ID:            s.MedicID,
		Name:          s.MedicName,
		Unit:          s.Unit,
		Certification: s.Certification,
	}, true
}
