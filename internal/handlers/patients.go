package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	"github.com/sceu/clinic/internal/storage"
	apperrors "github.com/sceu/clinic/pkg/errors"
	"github.com/sceu/clinic/pkg/logger"
)

// patientStore is the patient persistence surface the handler needs.
type patientStore interface {
	Search(ctx context.Context, query string, page, perPage int) ([]*models.Patient, int, error)
	CreatePatient(ctx context.Context, params services.CreatePatientParams) (*models.Patient, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, params services.CreatePatientParams) (*models.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) error
	SetSignatureKey(ctx context.Context, id uuid.UUID, key string) error
}

// PatientHandler handles patient endpoints
type PatientHandler struct {
	patients patientStore
	storage  *storage.Client
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patients *services.PatientService, storageClient *storage.Client) *PatientHandler {
	return &PatientHandler{patients: patients, storage: storageClient}
}

// PatientRequest represents a patient create/update request
type PatientRequest struct {
	Name              string `json:"name"`
	Document          string `json:"document"`
	Address           string `json:"address"`
	PhoneNumber       string `json:"phone_number"`
	City              string `json:"city"`
	ProductID         string `json:"product_id"`
	Entity            string `json:"entity"`
	EntityName        string `json:"entity_name"`
	CompanionRequired string `json:"companion_required"`
}

func (r PatientRequest) toParams() (services.CreatePatientParams, error) {
	productID, err := uuid.Parse(r.ProductID)
	if err != nil {
		return services.CreatePatientParams{}, err
	}
	return services.CreatePatientParams{
		Name:              r.Name,
		Document:          r.Document,
		Address:           r.Address,
		PhoneNumber:       r.PhoneNumber,
		City:              r.City,
		ProductID:         productID,
		Entity:            r.Entity,
		EntityName:        r.EntityName,
		CompanionRequired: r.CompanionRequired,
	}, nil
}

// ListPatients searches patients with a free-text query and paginates.
// The query comes from "q"; callers that want to reuse their previous
// search pass it back explicitly as "last_q" (there is no server-side
// memory of past queries).
func (h *PatientHandler) ListPatients(c *gin.Context) {
	values := c.Request.URL.Query()

	var query string
	if values.Has("q") {
		query = values.Get("q")
	} else {
		query = values.Get("last_q")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))

	patients, total, err := h.patients.Search(c.Request.Context(), query, page, perPage)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"patients": patients,
		"total":    total,
		"page":     page,
		"per_page": perPage,
		"q":        query,
	}
	if total == 0 && query != "" {
		// advisory only; an empty result is not an error
		resp["message"] = "No se encontraron usuarios para la búsqueda."
	}

	c.JSON(http.StatusOK, resp)
}

// CreatePatient creates a new patient
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	params, err := req.toParams()
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid product_id"))
		return
	}

	patient, err := h.patients.CreatePatient(c.Request.Context(), params)
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, patient)
}

// GetPatient retrieves a patient by ID
func (h *PatientHandler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	patient, err := h.patients.GetPatientByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperrors.NotFound("patient not found"))
		return
	}

	c.JSON(http.StatusOK, patient)
}

// UpdatePatient updates a patient
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	var req PatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	params, err := req.toParams()
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid product_id"))
		return
	}

	patient, err := h.patients.UpdatePatient(c.Request.Context(), id, params)
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, patient)
}

// DeletePatient deletes a patient and its stored signature image
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	patient, err := h.patients.GetPatientByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperrors.NotFound("patient not found"))
		return
	}

	if err := h.patients.DeletePatient(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	// best effort; the row is already gone
	if patient.SignatureKey != "" {
		if err := h.storage.DeleteSignature(c.Request.Context(), patient.SignatureKey); err != nil && err != storage.ErrDisabled {
			logger.Warn("failed to delete signature object", "patient", id, "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "patient deleted"})
}

// UploadSignature stores a patient's signature image in object storage
func (h *PatientHandler) UploadSignature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	if _, err := h.patients.GetPatientByID(c.Request.Context(), id); err != nil {
		writeError(c, apperrors.NotFound("patient not found"))
		return
	}

	fileHeader, err := c.FormFile("signature")
	if err != nil {
		writeError(c, apperrors.BadRequest("signature file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, apperrors.BadRequest("failed to open uploaded file"))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key, err := h.storage.PutSignature(c.Request.Context(), id.String(), file, fileHeader.Size, contentType)
	if err != nil {
		if err == storage.ErrDisabled {
			writeError(c, apperrors.New(http.StatusServiceUnavailable, "storage service not configured", err))
			return
		}
		writeError(c, err)
		return
	}

	if err := h.patients.SetSignatureKey(c.Request.Context(), id, key); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key})
}

// GetSignature returns a short-lived presigned URL for a patient's signature
func (h *PatientHandler) GetSignature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	patient, err := h.patients.GetPatientByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, apperrors.NotFound("patient not found"))
		return
	}
	if patient.SignatureKey == "" {
		writeError(c, apperrors.NotFound("patient has no signature"))
		return
	}

	url, err := h.storage.SignatureURL(c.Request.Context(), patient.SignatureKey, 15*time.Minute)
	if err != nil {
		if err == storage.ErrDisabled {
			writeError(c, apperrors.New(http.StatusServiceUnavailable, "storage service not configured", err))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
