package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"distris-api/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductRepository defines the interface for catalog data access. Imports
// are additive: Append never overwrites existing records, so re-importing a
// supplier file appends rows beside the earlier ones even when the batch
// carries catalog IDs that already exist. Storage keys on a surrogate
// row_id, never on the catalog ID.
type ProductRepository interface {
	Append(ctx context.Context, products []domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, supplierID string, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Append inserts a batch of canonical products inside one transaction.
// Appends are serialized through the database; concurrent imports cannot
// interleave partial batches.
func (r *productRepository) Append(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (id, sku, name, description, price, stock, category, brand, image_url, supplier_id, vat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, p := range products {
		_, err := tx.ExecContext(
			ctx,
			query,
			p.ID,
			p.SKU,
			p.Name,
			p.Description,
			p.Price,
			p.Stock,
			p.Category,
			p.Brand,
			p.ImageURL,
			p.SupplierID,
			p.VAT,
		)
		if err != nil {
			return fmt.Errorf("failed to append product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product batch: %w", err)
	}

	return nil
}

// FindByID retrieves a product by its catalog ID. Catalog IDs repeat across
// import batches; the most recently appended row wins.
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, sku, name, description, price, stock, category, brand, image_url, supplier_id, vat
		FROM products
		WHERE id = $1
		ORDER BY row_id DESC
		LIMIT 1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.SKU,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.Brand,
		&product.ImageURL,
		&product.SupplierID,
		&product.VAT,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products with optional supplier filtering, pagination, and sorting
func (r *productRepository) List(ctx context.Context, supplierID string, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"sku":   true,
		"name":  true,
		"price": true,
		"stock": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "name"
	}

	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderAsc
	}

	whereClause := ""
	args := []interface{}{}
	argIndex := 1

	if supplierID != "" {
		whereClause = fmt.Sprintf("WHERE supplier_id = $%d", argIndex)
		args = append(args, supplierID)
		argIndex++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, sku, name, description, price, stock, category, brand, image_url, supplier_id, vat
		FROM products
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortBy, sortOrder, argIndex, argIndex+1)

	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Search searches for products by name or description with pagination
func (r *productRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	if strings.TrimSpace(query) == "" {
		return r.List(ctx, "", page, pageSize, "name", SortOrderAsc)
	}

	// Use ILIKE for case-insensitive search
	searchPattern := "%" + query + "%"

	countQuery := `
		SELECT COUNT(*)
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
	`
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, searchPattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize

	searchQuery := `
		SELECT id, sku, name, description, price, stock, category, brand, image_url, supplier_id, vat
		FROM products
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, searchPattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.SKU,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.Category,
			&product.Brand,
			&product.ImageURL,
			&product.SupplierID,
			&product.VAT,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
