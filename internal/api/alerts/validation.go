package alerts

import (
	"errors"

	"github.com/csjayzz/medlink-er-coordination/internal/models"
)

func ValidateSeverity(s string) (models.Severity, error) {
	switch s {
	case string(models.SeverityCritical), string(models.SeveritySerious), string(models.SeverityStable):
		return models.Severity(s), nil
	default:
		return "", errors.New("severity must be 'Critical', 'Serious', or 'Stable'")
	}
}

func ValidateEmergencyType(t string) (models.EmergencyType, error) {
	switch t {
	case string(models.EmergencyCardiac), string(models.EmergencyTrauma),
		string(models.EmergencyStroke), string(models.EmergencyRespiratory),
		string(models.EmergencyOther):
		return models.EmergencyType(t), nil
	default:
		return "", errors.New("type must be 'Cardiac', 'Trauma', 'Stroke', 'Respiratory', or 'Other'")
	}
}

func ValidateStatus(s string) (models.Status, error) {
	status, ok := models.ParseStatus(s)
	if !ok {
		return "", errors.New("status must be 'Incoming', 'Arrived', or 'Handed Over'")
	}
	return status, nil
}

func ValidateETA(eta int) error {
	if eta < 0 {
		return errors.New("eta must not be negative")
	}
	return nil
}
