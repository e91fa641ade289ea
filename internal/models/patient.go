package models

import (
	"time"

	"github.com/google/uuid"
)

// Yes/No choice values, stored as they appear on the printed forms.
const (
	Yes = "SI"
	No  = "NO"
)

// Healthcare entity types a patient can be covered by.
const (
	EntityEPS        = "EPS"
	EntityARL        = "ARL"
	EntityIPS        = "IPS"
	EntityParticular = "PARTICULAR"
)

// EntityChoices lists the accepted entity values.
var EntityChoices = []string{EntityEPS, EntityARL, EntityIPS, EntityParticular}

// Patient represents a patient and the product fitted for them.
type Patient struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Document          string    `json:"document"` // identity document (cédula)
	Address           string    `json:"address"`
	PhoneNumber       string    `json:"phone_number"`
	City              string    `json:"city"`
	ProductID         uuid.UUID `json:"product_id"`
	Entity            string    `json:"entity"`
	EntityName        string    `json:"entity_name"`
	CompanionRequired string    `json:"companion_required"`
	SignatureKey      string    `json:"-"` // object storage key, exposed via presigned URL
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ValidEntity reports whether entity is one of the accepted choices.
func ValidEntity(entity string) bool {
	for _, e := range EntityChoices {
		if e == entity {
			return true
		}
	}
	return false
}

// ValidYesNo reports whether v is a valid yes/no value.
func ValidYesNo(v string) bool {
	return v == Yes || v == No
}
