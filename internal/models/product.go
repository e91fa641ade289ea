package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a prosthetic or orthotic device type the workshop builds.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Subcategory string    `json:"subcategory,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RawMaterial is a supply used to build products.
type RawMaterial struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RawMaterialQuantity links a product to a raw material with the quantity
// needed per unit.
type RawMaterialQuantity struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	RawMaterialID uuid.UUID `json:"raw_material_id"`
	Quantity      string    `json:"quantity"`
}

// ProductDetail is a product with its raw material requirements, as returned
// by the API.
type ProductDetail struct {
	Product
	Materials []MaterialRequirement `json:"materials"`
}

// MaterialRequirement is one raw material line of a product.
type MaterialRequirement struct {
	RawMaterialID uuid.UUID `json:"raw_material_id"`
	Name          string    `json:"name"`
	Quantity      string    `json:"quantity"`
}
