package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sceu/clinic/internal/models"
	"github.com/sceu/clinic/internal/search"
)

// PatientService handles patient operations, including free-text search
// over patients and their appointment records.
type PatientService struct {
	db *pgxpool.Pool
}

// NewPatientService creates a new PatientService
func NewPatientService(db *pgxpool.Pool) *PatientService {
	return &PatientService{db: db}
}

const patientColumns = `p.id, p.name, p.document, p.address, p.phone_number, p.city,
	p.product_id, p.entity, p.entity_name, p.companion_required,
	COALESCE(p.signature_key, ''), p.created_at, p.updated_at`

func scanPatient(row pgx.Row) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(
		&p.ID, &p.Name, &p.Document, &p.Address, &p.PhoneNumber, &p.City,
		&p.ProductID, &p.Entity, &p.EntityName, &p.CompanionRequired,
		&p.SignatureKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Search filters patients with a free-text query and paginates the result.
// Every token of the query is interpreted against name, document and record
// date fields; all interpretations are OR'd together and the matching
// patients deduplicated. An empty query returns all patients. Returns the
// page of patients and the total number of distinct matches.
func (s *PatientService) Search(ctx context.Context, query string, page, perPage int) ([]*models.Patient, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 25
	}

	preds := search.ParseQuery(query)
	cond, args := search.Where(preds, 1)

	from := "FROM patients p"
	if cond != "" {
		// record-date predicates need the records joined in
		from += " LEFT JOIN patient_records r ON r.patient_id = p.id WHERE " + cond
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(DISTINCT p.id) "+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	limitArg := len(args) + 1
	sql := fmt.Sprintf("SELECT DISTINCT %s %s ORDER BY p.name, p.id LIMIT $%d OFFSET $%d",
		patientColumns, from, limitArg, limitArg+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search patients: %w", err)
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read patients: %w", err)
	}

	return patients, total, nil
}

// CreatePatientParams holds the fields for creating or updating a patient.
type CreatePatientParams struct {
	Name              string
	Document          string
	Address           string
	PhoneNumber       string
	City              string
	ProductID         uuid.UUID
	Entity            string
	EntityName        string
	CompanionRequired string
}

func (p CreatePatientParams) validate() error {
	if p.Name == "" || p.Document == "" {
		return fmt.Errorf("name and document are required")
	}
	if !models.ValidEntity(p.Entity) {
		return fmt.Errorf("invalid entity %q", p.Entity)
	}
	if !models.ValidYesNo(p.CompanionRequired) {
		return fmt.Errorf("invalid companion_required %q", p.CompanionRequired)
	}
	return nil
}

// CreatePatient creates a new patient
func (s *PatientService) CreatePatient(ctx context.Context, params CreatePatientParams) (*models.Patient, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO patients (id, name, document, address, phone_number, city, product_id, entity, entity_name, companion_required, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())`,
		id, params.Name, params.Document, params.Address, params.PhoneNumber, params.City,
		params.ProductID, params.Entity, params.EntityName, params.CompanionRequired,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	return s.GetPatientByID(ctx, id)
}

// GetPatientByID retrieves a patient by ID
func (s *PatientService) GetPatientByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	row := s.db.QueryRow(ctx, "SELECT "+patientColumns+" FROM patients p WHERE p.id = $1", id)
	p, err := scanPatient(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

// UpdatePatient updates a patient
func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, params CreatePatientParams) (*models.Patient, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE patients SET name = $1, document = $2, address = $3, phone_number = $4, city = $5,
		 product_id = $6, entity = $7, entity_name = $8, companion_required = $9, updated_at = now()
		 WHERE id = $10`,
		params.Name, params.Document, params.Address, params.PhoneNumber, params.City,
		params.ProductID, params.Entity, params.EntityName, params.CompanionRequired, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("patient not found")
	}

	return s.GetPatientByID(ctx, id)
}

// DeletePatient deletes a patient and, via cascade, their records
func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM patients WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// SetSignatureKey stores the object storage key of a patient's signature.
func (s *PatientService) SetSignatureKey(ctx context.Context, id uuid.UUID, key string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE patients SET signature_key = $1, updated_at = now() WHERE id = $2", key, id)
	if err != nil {
		return fmt.Errorf("failed to set signature key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient not found")
	}
	return nil
}
