package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/services"
	apperrors "github.com/sceu/clinic/pkg/errors"
)

// RecordHandler handles appointment record endpoints
type RecordHandler struct {
	records *services.RecordService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// RecordRequest represents a record create/update request
type RecordRequest struct {
	Date                   *time.Time `json:"date"`
	Client                 string     `json:"client"`
	Requirement            string     `json:"requirement"`
	Description            string     `json:"description"`
	Activity               string     `json:"activity"`
	ReportedDrawbacks      string     `json:"reported_drawbacks"`
	DrawbacksDescription   string     `json:"drawbacks_description"`
	Technosurveillance     string     `json:"technosurveillance"`
	TechnosurveillanceID   *int       `json:"technosurveillance_id"`
	TechnosurveillanceDate *time.Time `json:"technosurveillance_date"`
	NewAppointment         string     `json:"new_appointment"`
	NewAppointmentDate     *time.Time `json:"new_appointment_date"`
}

func (r RecordRequest) toParams() services.CreateRecordParams {
	params := services.CreateRecordParams{
		Client:                 r.Client,
		Requirement:            r.Requirement,
		Description:            r.Description,
		Activity:               r.Activity,
		ReportedDrawbacks:      r.ReportedDrawbacks,
		DrawbacksDescription:   r.DrawbacksDescription,
		Technosurveillance:     r.Technosurveillance,
		TechnosurveillanceID:   r.TechnosurveillanceID,
		TechnosurveillanceDate: r.TechnosurveillanceDate,
		NewAppointment:         r.NewAppointment,
		NewAppointmentDate:     r.NewAppointmentDate,
	}
	if r.Date != nil {
		params.Date = *r.Date
	}
	return params
}

// ListRecords lists a patient's records
func (h *RecordHandler) ListRecords(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	records, err := h.records.ListRecordsByPatient(c.Request.Context(), patientID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// CreateRecord creates a record for a patient
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	record, err := h.records.CreateRecord(c.Request.Context(), patientID, req.toParams())
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateRecord updates a record
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid record id"))
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	record, err := h.records.UpdateRecord(c.Request.Context(), id, req.toParams())
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteRecord deletes a record
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid record id"))
		return
	}

	if err := h.records.DeleteRecord(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}
