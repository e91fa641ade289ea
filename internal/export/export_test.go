package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
)

func testData() *Data {
	patient := &models.Patient{
		ID:       uuid.New(),
		Name:     "Maria Perez",
		Document: "1020304050",
		City:     "Medellín",
		Entity:   models.EntityEPS,
	}
	value := 1250000
	return &Data{
		Patient: patient,
		Product: &models.Product{ID: uuid.New(), Name: "Protesis debajo de rodilla"},
		Records: []*models.PatientRecord{
			{
				ID:          uuid.New(),
				PatientID:   patient.ID,
				Date:        time.Date(2021, 2, 3, 10, 0, 0, 0, time.UTC),
				Client:      models.ClientNew,
				Requirement: models.ReqMeasurement,
				Description: models.DefaultDescription,
				Activity:    models.DefaultActivity,
			},
		},
		Materials: &services.MaterialsResult{
			Materials: []*models.Traceability{
				{
					InvoiceNumber: "10234",
					PurchaseDate:  time.Date(2021, 1, 20, 0, 0, 0, 0, time.UTC),
					Supplies:      "Resina acrilica",
					Amount:        2.5,
					Supplier:      "Quimicos SA",
					Value:         &value,
				},
			},
			Messages: []string{"No se encontró ninguna fecha previa para el producto Velcro."},
		},
	}
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		out[f.Name] = string(content)
	}
	return out
}

func TestExportBundlesSelectedDocuments(t *testing.T) {
	// no wkhtmltopdf configured: HTML is bundled directly
	e, err := New("")
	if err != nil {
		t.Fatal(err)
	}

	data, err := e.Export(context.Background(), []string{DocFollowUp, DocTraceability}, testData())
	if err != nil {
		t.Fatal(err)
	}

	files := readZip(t, data)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", len(files))
	}
	if !strings.Contains(files["follow_up.html"], "Maria Perez") {
		t.Error("follow_up.html missing patient name")
	}
	if !strings.Contains(files["traceability.html"], "Resina acrilica") {
		t.Error("traceability.html missing material")
	}
	if !strings.Contains(files["traceability.html"], "Velcro") {
		t.Error("traceability.html missing advisory message")
	}
}

func TestExportRecords(t *testing.T) {
	e, err := New("")
	if err != nil {
		t.Fatal(err)
	}

	data, err := e.Export(context.Background(), []string{DocRecords}, testData())
	if err != nil {
		t.Fatal(err)
	}

	files := readZip(t, data)
	content := files["patient_record.html"]
	if !strings.Contains(content, "03/02/2021") {
		t.Errorf("record date missing: %s", content)
	}
	if !strings.Contains(content, models.ReqMeasurement) {
		t.Error("requirement missing")
	}
}

func TestExportRejectsUnknownDocument(t *testing.T) {
	e, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Export(context.Background(), []string{"invoice"}, testData()); err == nil {
		t.Fatal("expected error for unknown document")
	}
	if _, err := e.Export(context.Background(), nil, testData()); err == nil {
		t.Fatal("expected error for empty selection")
	}
}
