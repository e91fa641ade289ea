package models

import (
	"time"

	"github.com/google/uuid"
)

// Client types for an appointment record.
const (
	ClientNew      = "Nuevo"
	ClientExisting = "Existente"
)

// Requirement choices: the reason for an appointment. Values match the
// printed follow-up forms.
const (
	ReqTraining         = "ENTRENAMIENTO"
	ReqWarranty         = "GARANTIA"
	ReqMaintenance      = "MANTENIMIENTO"
	ReqRepair           = "REPARACION"
	ReqAssessment       = "VALORACION"
	ReqMeasurement      = "TOMA DE MEDIDAS"
	ReqDeviceTrial      = "PRUEBA DE DISPOSITIVO"
	ReqTrialAndHandover = "PRUEBA Y ENTREGA DE DISPOSITIVO"
)

// RequirementChoices lists the accepted requirement values.
var RequirementChoices = []string{
	ReqTraining, ReqWarranty, ReqMaintenance, ReqRepair,
	ReqAssessment, ReqMeasurement, ReqDeviceTrial, ReqTrialAndHandover,
}

// Default texts for new records.
const (
	DefaultDescription = "Usuario asiste para toma de medidas"
	DefaultActivity    = "SATISFACTORIO"
)

// PatientRecord is one appointment in a patient's history.
type PatientRecord struct {
	ID                     uuid.UUID  `json:"id"`
	PatientID              uuid.UUID  `json:"patient_id"`
	Date                   time.Time  `json:"date"`
	Client                 string     `json:"client"`
	Requirement            string     `json:"requirement"`
	Description            string     `json:"description"`
	Activity               string     `json:"activity"`
	ReportedDrawbacks      string     `json:"reported_drawbacks"`
	DrawbacksDescription   string     `json:"drawbacks_description"`
	Technosurveillance     string     `json:"technosurveillance"`
	TechnosurveillanceID   *int       `json:"technosurveillance_id,omitempty"`
	TechnosurveillanceDate *time.Time `json:"technosurveillance_date,omitempty"`
	NewAppointment         string     `json:"new_appointment"`
	NewAppointmentDate     *time.Time `json:"new_appointment_date,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// ValidRequirement reports whether req is one of the accepted choices.
func ValidRequirement(req string) bool {
	for _, r := range RequirementChoices {
		if r == req {
			return true
		}
	}
	return false
}

// ValidClient reports whether c is a valid client type.
func ValidClient(c string) bool {
	return c == ClientNew || c == ClientExisting
}
