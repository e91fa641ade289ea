package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/export"
	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	apperrors "github.com/sceu/clinic/pkg/errors"
)

// ExportHandler builds ZIP exports of patient documents
type ExportHandler struct {
	exporter     *export.Exporter
	patients     *services.PatientService
	records      *services.RecordService
	products     *services.ProductService
	traceability *services.TraceabilityService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(
	exporter *export.Exporter,
	patients *services.PatientService,
	records *services.RecordService,
	products *services.ProductService,
	traceability *services.TraceabilityService,
) *ExportHandler {
	return &ExportHandler{
		exporter:     exporter,
		patients:     patients,
		records:      records,
		products:     products,
		traceability: traceability,
	}
}

// ExportRequest selects the documents to export. Indices select a subset of
// the patient's records (most recent first); empty means all records.
type ExportRequest struct {
	Documents []string `json:"documents"`
	Indices   []int    `json:"indices"`
}

// Export renders the selected documents for a patient and returns a ZIP
func (h *ExportHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, apperrors.BadRequest("invalid patient id"))
		return
	}

	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.BadRequest("invalid request body"))
		return
	}
	if len(req.Documents) == 0 {
		writeError(c, apperrors.BadRequest("documents is required"))
		return
	}

	ctx := c.Request.Context()

	patient, err := h.patients.GetPatientByID(ctx, id)
	if err != nil {
		writeError(c, apperrors.NotFound("patient not found"))
		return
	}

	data := &export.Data{Patient: patient}

	if product, err := h.products.GetProductByID(ctx, patient.ProductID); err == nil {
		data.Product = product
	}

	records, err := h.records.ListRecordsByPatient(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	data.Records = selectRecords(records, req.Indices)

	for _, doc := range req.Documents {
		if doc != export.DocTraceability {
			continue
		}
		result, err := h.traceability.MaterialsForPatient(ctx, id)
		if err != nil {
			writeError(c, apperrors.BadRequest(err.Error()))
			return
		}
		data.Materials = result
		break
	}

	archive, err := h.exporter.Export(ctx, req.Documents, data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename=export.zip`)
	c.Data(http.StatusOK, "application/zip", archive)
}

// selectRecords picks records by index, ignoring out-of-range entries.
// An empty selection keeps everything.
func selectRecords(records []*models.PatientRecord, indices []int) []*models.PatientRecord {
	if len(indices) == 0 {
		return records
	}
	var out []*models.PatientRecord
	for _, i := range indices {
		if i >= 0 && i < len(records) {
			out = append(out, records[i])
		}
	}
	return out
}
