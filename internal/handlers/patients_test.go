package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/services"
	"github.com/sceu/clinic/internal/storage"
)

// fakePatientStore records the queries the handler passes down.
type fakePatientStore struct {
	searchQuery   string
	searchCalled  bool
	patient       *models.Patient
	deleted       []uuid.UUID
	signatureKeys map[uuid.UUID]string
}

func (f *fakePatientStore) Search(_ context.Context, query string, page, perPage int) ([]*models.Patient, int, error) {
	f.searchCalled = true
	f.searchQuery = query
	return nil, 0, nil
}

func (f *fakePatientStore) CreatePatient(context.Context, services.CreatePatientParams) (*models.Patient, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakePatientStore) GetPatientByID(_ context.Context, id uuid.UUID) (*models.Patient, error) {
	if f.patient == nil || f.patient.ID != id {
		return nil, fmt.Errorf("patient not found")
	}
	return f.patient, nil
}

func (f *fakePatientStore) UpdatePatient(context.Context, uuid.UUID, services.CreatePatientParams) (*models.Patient, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakePatientStore) DeletePatient(_ context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePatientStore) SetSignatureKey(_ context.Context, id uuid.UUID, key string) error {
	if f.signatureKeys == nil {
		f.signatureKeys = map[uuid.UUID]string{}
	}
	f.signatureKeys[id] = key
	return nil
}

func newTestPatientHandler(t *testing.T, store *fakePatientStore) *PatientHandler {
	t.Helper()
	client, err := storage.NewClient(storage.Config{})
	if err != nil {
		t.Fatal(err)
	}
	return &PatientHandler{patients: store, storage: client}
}

func listPatientsRequest(t *testing.T, store *fakePatientStore, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/patients", newTestPatientHandler(t, store).ListPatients)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestListPatientsUsesLastQueryWhenAbsent(t *testing.T) {
	store := &fakePatientStore{}
	w := listPatientsRequest(t, store, "/api/patients?last_q=maria")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !store.searchCalled || store.searchQuery != "maria" {
		t.Errorf("search query = %q, want %q", store.searchQuery, "maria")
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["q"] != "maria" {
		t.Errorf("echoed q = %v, want maria", body["q"])
	}
	if _, ok := body["message"]; !ok {
		t.Error("expected advisory message for a query with no matches")
	}
}

func TestListPatientsEmptyQueryOverridesLastQuery(t *testing.T) {
	store := &fakePatientStore{}
	w := listPatientsRequest(t, store, "/api/patients?q=&last_q=maria")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !store.searchCalled || store.searchQuery != "" {
		t.Errorf("search query = %q, want unfiltered", store.searchQuery)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body["message"]; ok {
		t.Error("unfiltered listing must not carry the no-results advisory")
	}
}

func TestListPatientsQueryWins(t *testing.T) {
	store := &fakePatientStore{}
	listPatientsRequest(t, store, "/api/patients?q=perez&last_q=maria")

	if store.searchQuery != "perez" {
		t.Errorf("search query = %q, want %q", store.searchQuery, "perez")
	}
}

func TestDeletePatientCleansUpSignature(t *testing.T) {
	id := uuid.New()
	store := &fakePatientStore{
		patient: &models.Patient{ID: id, Name: "Maria", SignatureKey: "patients/" + id.String() + "/signature"},
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/api/patients/:id", newTestPatientHandler(t, store).DeletePatient)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/patients/"+id.String(), nil)
	r.ServeHTTP(w, req)

	// storage is unconfigured here; object cleanup is best effort and must
	// not fail the delete
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != id {
		t.Errorf("deleted = %v, want [%s]", store.deleted, id)
	}
}
