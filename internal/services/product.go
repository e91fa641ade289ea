package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sceu/clinic/internal/models"
)

// ProductService handles products and their raw material requirements
type ProductService struct {
	db *pgxpool.Pool
}

// NewProductService creates a new ProductService
func NewProductService(db *pgxpool.Pool) *ProductService {
	return &ProductService{db: db}
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, name, subcategory string) (*models.Product, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	id := uuid.New()
	_, err := s.db.Exec(ctx,
		"INSERT INTO products (id, name, subcategory, created_at) VALUES ($1, $2, $3, now())",
		id, name, subcategory,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return s.GetProductByID(ctx, id)
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow(ctx,
		"SELECT id, name, COALESCE(subcategory, ''), created_at FROM products WHERE id = $1", id,
	).Scan(&p.ID, &p.Name, &p.Subcategory, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// ListProducts lists all products, alphabetically
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := s.db.Query(ctx,
		"SELECT id, name, COALESCE(subcategory, ''), created_at FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Subcategory, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// CreateRawMaterial creates a raw material, returning the existing one if
// the name is already registered.
func (s *ProductService) CreateRawMaterial(ctx context.Context, name string) (*models.RawMaterial, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var m models.RawMaterial
	err := s.db.QueryRow(ctx, "SELECT id, name FROM raw_materials WHERE name = $1", name).Scan(&m.ID, &m.Name)
	if err == nil {
		return &m, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to check raw material: %w", err)
	}

	m = models.RawMaterial{ID: uuid.New(), Name: name}
	_, err = s.db.Exec(ctx, "INSERT INTO raw_materials (id, name) VALUES ($1, $2)", m.ID, m.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create raw material: %w", err)
	}
	return &m, nil
}

// ListRawMaterials lists all raw materials, alphabetically
func (s *ProductService) ListRawMaterials(ctx context.Context) ([]*models.RawMaterial, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name FROM raw_materials ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list raw materials: %w", err)
	}
	defer rows.Close()

	var materials []*models.RawMaterial
	for rows.Next() {
		var m models.RawMaterial
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan raw material: %w", err)
		}
		materials = append(materials, &m)
	}
	return materials, rows.Err()
}

// SetMaterialQuantity sets how much of a raw material a product needs,
// inserting or updating the join row.
func (s *ProductService) SetMaterialQuantity(ctx context.Context, productID, rawMaterialID uuid.UUID, quantity string) error {
	if quantity == "" {
		return fmt.Errorf("quantity is required")
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO raw_material_quantities (id, product_id, raw_material_id, quantity)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (product_id, raw_material_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
		uuid.New(), productID, rawMaterialID, quantity,
	)
	if err != nil {
		return fmt.Errorf("failed to set material quantity: %w", err)
	}
	return nil
}

// GetProductDetail returns a product with its raw material requirements.
func (s *ProductService) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.ProductDetail, error) {
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT rm.id, rm.name, q.quantity
		 FROM raw_material_quantities q
		 JOIN raw_materials rm ON rm.id = q.raw_material_id
		 WHERE q.product_id = $1
		 ORDER BY rm.name`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list product materials: %w", err)
	}
	defer rows.Close()

	detail := &models.ProductDetail{Product: *product}
	for rows.Next() {
		var req models.MaterialRequirement
		if err := rows.Scan(&req.RawMaterialID, &req.Name, &req.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan material requirement: %w", err)
		}
		detail.Materials = append(detail.Materials, req)
	}
	return detail, rows.Err()
}
