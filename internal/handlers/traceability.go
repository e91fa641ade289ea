package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	apperrors "github.com/sceu/clinic/pkg/errors"
)

// TraceabilityHandler handles supply traceability endpoints
type TraceabilityHandler struct {
	traceability *services.TraceabilityService
}

// NewTraceabilityHandler creates a new TraceabilityHandler
func NewTraceabilityHandler(traceability *services.TraceabilityService) *TraceabilityHandler {
	return &TraceabilityHandler{traceability: traceability}
}

// TraceabilityRequest represents a traceability entry creation request
type TraceabilityRequest struct {
	InvoiceNumber  string     `json:"invoice_number"`
	PurchaseDate   time.Time  `json:"purchase_date"`
	Supplies       string     `json:"supplies"`
	Amount         float64    `json:"amount"`
	Supplier       string     `json:"supplier"`
	BatchNumber    string     `json:"batch_number"`
	InvimaRegistry string     `json:"invima_registry"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Value          *int       `json:"value"`
}

// ListEntries lists traceability entries
func (h *TraceabilityHandler) ListEntries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.traceability.ListEntries(c.Request.Context(), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// CreateEntry creates a traceability entry
func (h *TraceabilityHandler) CreateEntry(c *gin.Context) {
	var req TraceabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}

	entry, err := h.traceability.CreateEntry(c.Request.Context(), &models.Traceability{
		InvoiceNumber:  req.InvoiceNumber,
		PurchaseDate:   req.PurchaseDate,
		Supplies:       req.Supplies,
		Amount:         req.Amount,
		Supplier:       req.Supplier,
		BatchNumber:    req.BatchNumber,
		InvimaRegistry: req.InvimaRegistry,
		ExpirationDate: req.ExpirationDate,
		Value:          req.Value,
	})
	if err != nil {
		writeError(c, apperrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// PatientMaterials returns the material batches used for a patient's
// product, with advisory messages for materials without a matching purchase
func (h *TraceabilityHandler) PatientMaterials(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	result, err := h.traceability.MaterialsForPatient(c.Request.Context(), patientID)
	if err != nil {
		writeError(c, apperrors.NotFound(err.Error()))
		return
	}

	c.JSON(http.StatusOK, result)
}
