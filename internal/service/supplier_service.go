package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"distris-api/internal/domain"
	"distris-api/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrSupplierNameRequired = errors.New("supplier name is required")
)

// SupplierService defines the business logic around the supplier registry.
// Suppliers are created and edited by administrators; deleting one does not
// touch products already imported from it.
type SupplierService interface {
	Create(ctx context.Context, name string, active bool) (*domain.Supplier, error)
	Update(ctx context.Context, id, name string, active bool) (*domain.Supplier, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierService creates a new instance of SupplierService
func NewSupplierService(supplierRepo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: supplierRepo}
}

// Create registers a new supplier with an empty column mapping.
func (s *supplierService) Create(ctx context.Context, name string, active bool) (*domain.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSupplierNameRequired
	}

	now := time.Now()
	supplier := &domain.Supplier{
		ID:        fmt.Sprintf("supplier-%s", uuid.New().String()),
		Name:      name,
		Active:    active,
		Mapping:   domain.ColumnMapping{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return supplier, nil
}

// Update edits a supplier's name and activity flag; the column mapping is
// managed through the confirmation flow, not here.
func (s *supplierService) Update(ctx context.Context, id, name string, active bool) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSupplierNameRequired
	}

	supplier.Name = name
	supplier.Active = active
	supplier.UpdatedAt = time.Now()

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return supplier, nil
}

// Delete removes a supplier from the registry.
func (s *supplierService) Delete(ctx context.Context, id string) error {
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// GetByID retrieves a supplier by ID
func (s *supplierService) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.supplierRepo.FindByID(ctx, id)
}

// List retrieves all suppliers
func (s *supplierService) List(ctx context.Context) ([]*domain.Supplier, error) {
	return s.supplierRepo.List(ctx)
}
