package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sceu/clinic/internal/models"
)

// TraceabilityService handles supply purchases and material lookups for
// patient exports.
type TraceabilityService struct {
	db      *pgxpool.Pool
	records *RecordService
}

// NewTraceabilityService creates a new TraceabilityService
func NewTraceabilityService(db *pgxpool.Pool, records *RecordService) *TraceabilityService {
	return &TraceabilityService{db: db, records: records}
}

const traceabilityColumns = `id, invoice_number, purchase_date, supplies, amount, supplier,
	COALESCE(batch_number, ''), COALESCE(invima_registry, ''), expiration_date, value, created_at`

func scanTraceability(row pgx.Row) (*models.Traceability, error) {
	var t models.Traceability
	err := row.Scan(
		&t.ID, &t.InvoiceNumber, &t.PurchaseDate, &t.Supplies, &t.Amount, &t.Supplier,
		&t.BatchNumber, &t.InvimaRegistry, &t.ExpirationDate, &t.Value, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateEntry inserts a single traceability entry.
func (s *TraceabilityService) CreateEntry(ctx context.Context, t *models.Traceability) (*models.Traceability, error) {
	if t.InvoiceNumber == "" || t.Supplies == "" {
		return nil, fmt.Errorf("invoice_number and supplies are required")
	}

	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO traceability (id, invoice_number, purchase_date, supplies, amount, supplier,
		 batch_number, invima_registry, expiration_date, value, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`,
		id, t.InvoiceNumber, t.PurchaseDate, t.Supplies, t.Amount, t.Supplier,
		t.BatchNumber, t.InvimaRegistry, t.ExpirationDate, t.Value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create traceability entry: %w", err)
	}

	row := s.db.QueryRow(ctx, "SELECT "+traceabilityColumns+" FROM traceability WHERE id = $1", id)
	return scanTraceability(row)
}

// BulkInsert inserts many traceability entries with a single COPY. Used by
// the CSV importer.
func (s *TraceabilityService) BulkInsert(ctx context.Context, entries []*models.Traceability) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(entries))
	for _, t := range entries {
		rows = append(rows, []any{
			uuid.New(), t.InvoiceNumber, t.PurchaseDate, t.Supplies, t.Amount, t.Supplier,
			t.BatchNumber, t.InvimaRegistry, t.ExpirationDate, t.Value,
		})
	}

	n, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"traceability"},
		[]string{"id", "invoice_number", "purchase_date", "supplies", "amount", "supplier",
			"batch_number", "invima_registry", "expiration_date", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return n, fmt.Errorf("failed to bulk insert traceability entries: %w", err)
	}
	return n, nil
}

// ListEntries lists traceability entries, most recent purchases first.
func (s *TraceabilityService) ListEntries(ctx context.Context, limit, offset int) ([]*models.Traceability, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.Query(ctx,
		"SELECT "+traceabilityColumns+" FROM traceability ORDER BY purchase_date DESC, invoice_number LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list traceability entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.Traceability
	for rows.Next() {
		t, err := scanTraceability(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan traceability entry: %w", err)
		}
		entries = append(entries, t)
	}
	return entries, rows.Err()
}

// MaterialsResult holds the material batches found for a patient and
// advisory messages for raw materials with no matching purchase.
type MaterialsResult struct {
	Materials []*models.Traceability `json:"materials"`
	Messages  []string               `json:"messages,omitempty"`
}

// MaterialsForPatient finds, for each raw material of the patient's product,
// the latest batch purchased before the patient's most recent appointment.
// Raw materials with no batch purchased before that date produce an advisory
// message instead of an error.
func (s *TraceabilityService) MaterialsForPatient(ctx context.Context, patientID uuid.UUID) (*MaterialsResult, error) {
	lastDate, err := s.records.LatestRecordDate(ctx, patientID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT rm.name
		 FROM patients p
		 JOIN raw_material_quantities q ON q.product_id = p.product_id
		 JOIN raw_materials rm ON rm.id = q.raw_material_id
		 WHERE p.id = $1
		 ORDER BY rm.name`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list product raw materials: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan raw material: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &MaterialsResult{}
	for _, name := range names {
		row := s.db.QueryRow(ctx,
			"SELECT "+traceabilityColumns+` FROM traceability
			 WHERE supplies = $1 AND purchase_date < $2
			 ORDER BY purchase_date DESC LIMIT 1`,
			name, lastDate,
		)
		t, err := scanTraceability(row)
		if err != nil {
			if err == pgx.ErrNoRows {
				result.Messages = append(result.Messages,
					fmt.Sprintf("No se encontró ninguna fecha previa para el producto %s.", name))
				continue
			}
			return nil, fmt.Errorf("failed to look up material %q: %w", name, err)
		}
		result.Materials = append(result.Materials, t)
	}

	return result, nil
}
