package models

import "testing"

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"Critical", SeverityCritical},
		{"Serious", SeveritySerious},
		{"Stable", SeverityStable},
		{"  Critical ", SeverityCritical},
		{"", SeverityStable},
		{"garbage", SeverityStable},
	}
	for _, tt := range tests {
		if got := ParseSeverity(tt.input); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseEmergencyType(t *testing.T) {
	tests := []struct {
		input string
		want  EmergencyType
	}{
		{"Cardiac", EmergencyCardiac},
		{"Trauma", EmergencyTrauma},
		{"Stroke", EmergencyStroke},
		{"Respiratory", EmergencyRespiratory},
		{"Other", EmergencyOther},
		{"", EmergencyOther},
		{"unknown", EmergencyOther},
	}
	for _, tt := range tests {
		if got := ParseEmergencyType(tt.input); got != tt.want {
			t.Errorf("ParseEmergencyType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, ok := ParseStatus("Departed"); ok {
		t.Error("ParseStatus should reject unknown status")
	}
	if s, ok := ParseStatus("Handed Over"); !ok || s != StatusHandedOver {
		t.Errorf("ParseStatus(%q) = %q, %v", "Handed Over", s, ok)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusIncoming, StatusArrived, true},
		{StatusIncoming, StatusHandedOver, true}, // drop-off without formal handoff
		{StatusArrived, StatusHandedOver, true},
		{StatusArrived, StatusIncoming, false},
		{StatusHandedOver, StatusIncoming, false},
		{StatusHandedOver, StatusArrived, false},
		{StatusIncoming, StatusIncoming, true},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestLatestVitals(t *testing.T) {
	a := &Alert{}
	v, ok := a.LatestVitals()
	if ok {
		t.Error("empty history should report no vitals")
	}
	if v.BloodPressure != "--/--" || v.Timestamp != "--" {
		t.Errorf("sentinel vitals = %+v", v)
	}

	a.Vitals = []Vitals{
		{HeartRate: 88, BloodPressure: "120/80", SpO2: 98, Timestamp: "09:15"},
		{HeartRate: 112, BloodPressure: "90/60", SpO2: 91, Timestamp: "09:22"},
	}
	v, ok = a.LatestVitals()
	if !ok || v.HeartRate != 112 {
		t.Errorf("LatestVitals = %+v, %v; want last snapshot", v, ok)
	}
}

func TestProfileFor(t *testing.T) {
	if _, ok := ProfileFor(&Session{Role: RoleHospital}); ok {
		t.Error("hospital session should have no medic profile")
	}

	sess := &Session{Role: RoleMedic, MedicID: "MED-9921", MedicName: "Sarah Jenkins"}
	p, ok := ProfileFor(sess)
	if !ok {
		t.Fatal("medic session should derive a profile")
	}
	if p.Unit != "Unit 21" {
		t.Errorf("default unit = %q, want Unit 21", p.Unit)
	}
	if p.Certification != "Paramedic" || p.DutyStatus != DutyEnRoute {
		t.Errorf("profile defaults = %+v", p)
	}

	sess.Unit = "Medic 42 / Rescue 1"
	sess.Certification = "Paramedic (FP-C)"
	p, _ = ProfileFor(sess)
	if p.Unit != "Medic 42 / Rescue 1" || p.Certification != "Paramedic (FP-C)" {
		t.Errorf("explicit identity fields not carried: %+v", p)
	}
}
