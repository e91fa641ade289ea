package models

import (
	"time"

	"github.com/google/uuid"
)

// Traceability is one purchased batch of supplies, as it appears on the
// supplier invoice. Batch number, INVIMA registry and expiration date are
// blank for supplies that do not carry them.
type Traceability struct {
	ID             uuid.UUID  `json:"id"`
	InvoiceNumber  string     `json:"invoice_number"`
	PurchaseDate   time.Time  `json:"purchase_date"`
	Supplies       string     `json:"supplies"`
	Amount         float64    `json:"amount"`
	Supplier       string     `json:"supplier"`
	BatchNumber    string     `json:"batch_number,omitempty"`
	InvimaRegistry string     `json:"invima_registry,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Value          *int       `json:"value,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
