package scribe

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

const (
	ToolUpdateForm    = "update_form"
	ToolTransmitAlert = "transmit_alert"
)

const systemInstruction = `You are an expert medical scribe for an emergency medical technician in the field.
Listen to the medic's report and extract structured data as it is spoken.
Whenever the medic states a fact about the patient, call update_form immediately with only
the fields mentioned. Do not wait for the report to finish and do not invent values.
Map severity to exactly one of: Critical, Serious, Stable.
Map the emergency type to exactly one of: Cardiac, Trauma, Stroke, Respiratory, Other.
When the medic clearly asks to send, transmit or submit the alert, call transmit_alert.
Keep any spoken replies to one short sentence.`

// scribeTools declares the two function tools the extraction model may call.
func scribeTools() []openai.Tool {
	updateParams := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"patientName": {Type: jsonschema.String, Description: "Patient's full name"},
			"patientAge":  {Type: jsonschema.String, Description: "Patient's age, as spoken"},
			"severity": {
				Type:        jsonschema.String,
				Description: "Triage severity",
				Enum:        []string{"Critical", "Serious", "Stable"},
			},
			"emergencyType": {
				Type:        jsonschema.String,
				Description: "Category of emergency",
				Enum:        []string{"Cardiac", "Trauma", "Stroke", "Respiratory", "Other"},
			},
			"eta":           {Type: jsonschema.Integer, Description: "Estimated minutes until arrival"},
			"heartRate":     {Type: jsonschema.Integer, Description: "Heart rate in bpm"},
			"bloodPressure": {Type: jsonschema.String, Description: "Blood pressure, e.g. 120/80"},
			"spo2":          {Type: jsonschema.Integer, Description: "Blood oxygen saturation percent"},
			"treatments": {
				Type:        jsonschema.Array,
				Description: "Complete list of treatments administered so far",
				Items:       &jsonschema.Definition{Type: jsonschema.String},
			},
			"notes": {Type: jsonschema.String, Description: "Free-form clinical notes"},
		},
	}

	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolUpdateForm,
				Description: "Update fields of the pre-arrival alert form. Call with only the fields just mentioned.",
				Parameters:  updateParams,
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ToolTransmitAlert,
				Description: "Transmit the completed alert to the receiving hospital.",
				Parameters:  jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}},
			},
		},
	}
}
