package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sceu/clinic/internal/models"
)

// RecordService handles appointment record operations
type RecordService struct {
	db *pgxpool.Pool
}

// NewRecordService creates a new RecordService
func NewRecordService(db *pgxpool.Pool) *RecordService {
	return &RecordService{db: db}
}

const recordColumns = `id, patient_id, date, client, requirement, description, activity,
	reported_drawbacks, drawbacks_description, technosurveillance,
	technosurveillance_id, technosurveillance_date, new_appointment, new_appointment_date, created_at`

func scanRecord(row pgx.Row) (*models.PatientRecord, error) {
	var r models.PatientRecord
	err := row.Scan(
		&r.ID, &r.PatientID, &r.Date, &r.Client, &r.Requirement, &r.Description, &r.Activity,
		&r.ReportedDrawbacks, &r.DrawbacksDescription, &r.Technosurveillance,
		&r.TechnosurveillanceID, &r.TechnosurveillanceDate, &r.NewAppointment, &r.NewAppointmentDate, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateRecordParams holds the fields for creating or updating a record.
// Zero-value choice fields fall back to the form defaults.
type CreateRecordParams struct {
	Date                   time.Time
	Client                 string
	Requirement            string
	Description            string
	Activity               string
	ReportedDrawbacks      string
	DrawbacksDescription   string
	Technosurveillance     string
	TechnosurveillanceID   *int
	TechnosurveillanceDate *time.Time
	NewAppointment         string
	NewAppointmentDate     *time.Time
}

func (p *CreateRecordParams) applyDefaults() {
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	if p.Client == "" {
		p.Client = models.ClientNew
	}
	if p.Requirement == "" {
		p.Requirement = models.ReqMeasurement
	}
	if p.Description == "" {
		p.Description = models.DefaultDescription
	}
	if p.Activity == "" {
		p.Activity = models.DefaultActivity
	}
	if p.ReportedDrawbacks == "" {
		p.ReportedDrawbacks = models.No
	}
	if p.Technosurveillance == "" {
		p.Technosurveillance = models.No
	}
	if p.NewAppointment == "" {
		p.NewAppointment = models.Yes
	}
}

func (p *CreateRecordParams) validate() error {
	if !models.ValidClient(p.Client) {
		return fmt.Errorf("invalid client %q", p.Client)
	}
	if !models.ValidRequirement(p.Requirement) {
		return fmt.Errorf("invalid requirement %q", p.Requirement)
	}
	for _, v := range []string{p.ReportedDrawbacks, p.Technosurveillance, p.NewAppointment} {
		if !models.ValidYesNo(v) {
			return fmt.Errorf("invalid yes/no value %q", v)
		}
	}
	return nil
}

// CreateRecord creates an appointment record for a patient
func (s *RecordService) CreateRecord(ctx context.Context, patientID uuid.UUID, params CreateRecordParams) (*models.PatientRecord, error) {
	params.applyDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO patient_records (id, patient_id, date, client, requirement, description, activity,
		 reported_drawbacks, drawbacks_description, technosurveillance, technosurveillance_id,
		 technosurveillance_date, new_appointment, new_appointment_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())`,
		id, patientID, params.Date, params.Client, params.Requirement, params.Description, params.Activity,
		params.ReportedDrawbacks, params.DrawbacksDescription, params.Technosurveillance,
		params.TechnosurveillanceID, params.TechnosurveillanceDate, params.NewAppointment, params.NewAppointmentDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	return s.GetRecordByID(ctx, id)
}

// GetRecordByID retrieves a record by ID
func (s *RecordService) GetRecordByID(ctx context.Context, id uuid.UUID) (*models.PatientRecord, error) {
	row := s.db.QueryRow(ctx, "SELECT "+recordColumns+" FROM patient_records WHERE id = $1", id)
	r, err := scanRecord(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("record not found")
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return r, nil
}

// ListRecordsByPatient lists a patient's records, most recent first
func (s *RecordService) ListRecordsByPatient(ctx context.Context, patientID uuid.UUID) ([]*models.PatientRecord, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+recordColumns+" FROM patient_records WHERE patient_id = $1 ORDER BY date DESC", patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.PatientRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LatestRecordDate returns the date of a patient's most recent record.
func (s *RecordService) LatestRecordDate(ctx context.Context, patientID uuid.UUID) (time.Time, error) {
	var date time.Time
	err := s.db.QueryRow(ctx,
		"SELECT date FROM patient_records WHERE patient_id = $1 ORDER BY date DESC LIMIT 1", patientID,
	).Scan(&date)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, fmt.Errorf("patient has no records")
		}
		return time.Time{}, fmt.Errorf("failed to get latest record date: %w", err)
	}
	return date, nil
}

// UpdateRecord updates an appointment record
func (s *RecordService) UpdateRecord(ctx context.Context, id uuid.UUID, params CreateRecordParams) (*models.PatientRecord, error) {
	params.applyDefaults()
	if err := params.validate(); err != nil {
		return nil, err
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE patient_records SET date = $1, client = $2, requirement = $3, description = $4, activity = $5,
		 reported_drawbacks = $6, drawbacks_description = $7, technosurveillance = $8, technosurveillance_id = $9,
		 technosurveillance_date = $10, new_appointment = $11, new_appointment_date = $12
		 WHERE id = $13`,
		params.Date, params.Client, params.Requirement, params.Description, params.Activity,
		params.ReportedDrawbacks, params.DrawbacksDescription, params.Technosurveillance,
		params.TechnosurveillanceID, params.TechnosurveillanceDate, params.NewAppointment, params.NewAppointmentDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("record not found")
	}

	return s.GetRecordByID(ctx, id)
}

// DeleteRecord deletes an appointment record
func (s *RecordService) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM patient_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
