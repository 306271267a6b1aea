package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"distris-api/internal/domain"
)

var (
	ErrSupplierNotFound      = errors.New("supplier not found")
	ErrSupplierAlreadyExists = errors.New("supplier already exists")
)

// SupplierRepository defines the interface for supplier data access. The
// column mapping is persisted as a flat JSON object so unknown extra keys
// survive round trips.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
	SaveMapping(ctx context.Context, id string, mapping domain.ColumnMapping) error
}

type supplierRepository struct {
	db *sql.DB
}

// NewSupplierRepository creates a new instance of SupplierRepository
func NewSupplierRepository(db *sql.DB) SupplierRepository {
	return &supplierRepository{db: db}
}

// Create inserts a new supplier using parameterized queries
func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	mapping, err := marshalMapping(supplier.Mapping)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO suppliers (id, name, active, column_mapping, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		supplier.ID,
		supplier.Name,
		supplier.Active,
		mapping,
		supplier.CreatedAt,
		supplier.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSupplierAlreadyExists
		}
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

// Update updates an existing supplier using parameterized queries
func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	mapping, err := marshalMapping(supplier.Mapping)
	if err != nil {
		return err
	}

	query := `
		UPDATE suppliers
		SET name = $2, active = $3, column_mapping = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		supplier.ID,
		supplier.Name,
		supplier.Active,
		mapping,
		supplier.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

// Delete removes a supplier. Products already imported from it are kept.
func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM suppliers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

// FindByID retrieves a supplier by ID using parameterized queries
func (r *supplierRepository) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `
		SELECT id, name, active, column_mapping, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`

	return r.scanSupplier(r.db.QueryRowContext(ctx, query, id))
}

// List retrieves all suppliers ordered by name
func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, active, column_mapping, created_at, updated_at
		FROM suppliers
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []*domain.Supplier{}
	for rows.Next() {
		supplier, err := r.scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

// SaveMapping persists a confirmed column mapping for a supplier
func (r *supplierRepository) SaveMapping(ctx context.Context, id string, mapping domain.ColumnMapping) error {
	raw, err := marshalMapping(mapping)
	if err != nil {
		return err
	}

	query := `
		UPDATE suppliers
		SET column_mapping = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, raw)
	if err != nil {
		return fmt.Errorf("failed to save column mapping: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *supplierRepository) scanSupplier(row rowScanner) (*domain.Supplier, error) {
	supplier := &domain.Supplier{}
	var rawMapping []byte

	err := row.Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Active,
		&rawMapping,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("failed to scan supplier: %w", err)
	}

	if len(rawMapping) > 0 {
		if err := json.Unmarshal(rawMapping, &supplier.Mapping); err != nil {
			return nil, fmt.Errorf("failed to decode column mapping: %w", err)
		}
	}

	return supplier, nil
}

func marshalMapping(mapping domain.ColumnMapping) ([]byte, error) {
	if mapping == nil {
		mapping = domain.ColumnMapping{}
	}
	raw, err := json.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("failed to encode column mapping: %w", err)
	}
	return raw, nil
}
