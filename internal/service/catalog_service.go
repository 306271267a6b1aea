package service

import (
	"context"
	"fmt"

	"distris-api/internal/domain"
	"distris-api/internal/pricing"
	"distris-api/internal/repository"
	"distris-api/internal/spreadsheet"
	"distris-api/internal/supplier"
)

// sampleRowLimit is how many data rows a preview returns.
const sampleRowLimit = 5

// Preview is what an administrator sees after uploading a spreadsheet:
// the detected header position, addressable column labels, the mapping
// proposal (stored mapping revalidated against this file, gaps filled by
// auto-mapping), and a few sample rows keyed by label.
type Preview struct {
	HeaderRow int                  `json:"headerRow"`
	Columns   []string             `json:"columns"`
	Proposal  domain.ColumnMapping `json:"proposal"`
	Sample    []map[string]string  `json:"sampleData"`
}

// PricedProduct pairs a canonical record with its displayed price.
type PricedProduct struct {
	domain.Product
	Quote pricing.Quote `json:"quote"`
}

// CatalogService owns the flow from raw supplier data to priced catalog
// entries: spreadsheet preview/confirm/import, API sync fan-out, and priced
// listing.
type CatalogService interface {
	PreviewSpreadsheet(ctx context.Context, supplierID string, file []byte) (*Preview, error)
	ConfirmMapping(ctx context.Context, supplierID string, mapping domain.ColumnMapping, columns []string) error
	ImportFromSpreadsheet(ctx context.Context, supplierID string, file []byte) (*spreadsheet.ImportResult, error)
	SyncAll(ctx context.Context) ([]supplier.Result, error)
	SyncOne(ctx context.Context, supplierID string) (*supplier.Result, error)
	ListPriced(ctx context.Context, supplierID, search string, page, pageSize int, pctx pricing.Context) ([]PricedProduct, int, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	syncer       *supplier.Syncer
	rates        *supplier.RateHolder
	defaultVAT   float64
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	syncer *supplier.Syncer,
	rates *supplier.RateHolder,
	defaultVAT float64,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		syncer:       syncer,
		rates:        rates,
		defaultVAT:   defaultVAT,
	}
}

// PreviewSpreadsheet decodes an uploaded file, locates the header row and
// proposes a column mapping. The supplier's stored mapping survives where its
// labels still exist in this file; stale references are dropped, not guessed.
func (s *catalogService) PreviewSpreadsheet(ctx context.Context, supplierID string, file []byte) (*Preview, error) {
	sup, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	rows, err := spreadsheet.ReadWorkbook(file)
	if err != nil {
		return nil, err
	}

	headerRow, err := spreadsheet.DetectHeaderRow(rows)
	if err != nil {
		return nil, err
	}
	columns := spreadsheet.HeaderLabels(rows[headerRow])

	proposal := spreadsheet.AutoMap(columns)
	if len(sup.Mapping) > 0 {
		kept := spreadsheet.RevalidateMapping(sup.Mapping, columns)
		proposal = spreadsheet.MergeMapping(proposal, kept)
	}

	sample := sampleRows(columns, rows[headerRow+1:])

	return &Preview{
		HeaderRow: headerRow,
		Columns:   columns,
		Proposal:  proposal,
		Sample:    sample,
	}, nil
}

// ConfirmMapping runs the validation gate against the column set of the last
// previewed file and persists the mapping on success. Violations block the
// save and report exactly which fields are missing or invalid.
func (s *catalogService) ConfirmMapping(ctx context.Context, supplierID string, mapping domain.ColumnMapping, columns []string) error {
	if _, err := s.supplierRepo.FindByID(ctx, supplierID); err != nil {
		return err
	}

	if err := spreadsheet.ValidateMapping(mapping, columns); err != nil {
		return err
	}

	if err := s.supplierRepo.SaveMapping(ctx, supplierID, mapping); err != nil {
		return fmt.Errorf("failed to persist mapping: %w", err)
	}

	return nil
}

// ImportFromSpreadsheet turns an uploaded file into canonical products using
// the supplier's confirmed mapping and appends them to the catalog. The
// append is additive: existing entries are never overwritten.
func (s *catalogService) ImportFromSpreadsheet(ctx context.Context, supplierID string, file []byte) (*spreadsheet.ImportResult, error) {
	sup, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if len(sup.Mapping) == 0 {
		return nil, spreadsheet.ErrNoMappingConfigured
	}

	rows, err := spreadsheet.ReadWorkbook(file)
	if err != nil {
		return nil, err
	}

	headerRow, err := spreadsheet.DetectHeaderRow(rows)
	if err != nil {
		return nil, err
	}
	columns := spreadsheet.HeaderLabels(rows[headerRow])

	result, err := spreadsheet.Import(supplierID, sup.Mapping, columns, rows[headerRow+1:])
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Append(ctx, result.Products); err != nil {
		return nil, fmt.Errorf("failed to store imported products: %w", err)
	}

	return result, nil
}

// SyncAll runs the supplier fan-out and appends every successful supplier's
// products to the catalog. One supplier's failure never blocks the others;
// failures come back inside the results.
func (s *catalogService) SyncAll(ctx context.Context) ([]supplier.Result, error) {
	results := s.syncer.SyncAll(ctx)

	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if err := s.productRepo.Append(ctx, res.Products); err != nil {
			return nil, fmt.Errorf("failed to store synced products for %s: %w", res.SupplierID, err)
		}
	}

	return results, nil
}

// SyncOne syncs a single supplier and appends its products.
func (s *catalogService) SyncOne(ctx context.Context, supplierID string) (*supplier.Result, error) {
	res := s.syncer.SyncOne(ctx, supplierID)
	if res.Err != nil {
		return nil, res.Err
	}

	if err := s.productRepo.Append(ctx, res.Products); err != nil {
		return nil, fmt.Errorf("failed to store synced products for %s: %w", supplierID, err)
	}

	return &res, nil
}

// ListPriced returns a page of catalog entries with their displayed price
// computed under the caller's pricing context. Missing context values fall
// back to the held exchange rate and the configured default VAT.
func (s *catalogService) ListPriced(ctx context.Context, supplierID, search string, page, pageSize int, pctx pricing.Context) ([]PricedProduct, int, error) {
	if pctx.ExchangeRate <= 0 {
		pctx.ExchangeRate = s.rates.Rate()
	}
	// An explicit VAT of zero is a valid choice; only substitute the
	// configured default when the caller left VAT out entirely.
	if !pctx.VATSet && pctx.DefaultVAT <= 0 {
		pctx.DefaultVAT = s.defaultVAT
	}
	if pctx.Mode == "" {
		pctx.Mode = pricing.ModeFinal
	}
	if pctx.Currency == "" {
		pctx.Currency = pricing.CurrencyUSD
	}

	var (
		products []*domain.Product
		total    int
		err      error
	)
	if search != "" {
		products, total, err = s.productRepo.Search(ctx, search, page, pageSize)
	} else {
		products, total, err = s.productRepo.List(ctx, supplierID, page, pageSize, "name", repository.SortOrderAsc)
	}
	if err != nil {
		return nil, 0, err
	}

	priced := make([]PricedProduct, 0, len(products))
	for _, p := range products {
		entry := *p
		if entry.Category == "" {
			entry.Category = domain.GenericPlaceholder
		}
		if entry.Brand == "" {
			entry.Brand = domain.GenericPlaceholder
		}
		priced = append(priced, PricedProduct{
			Product: entry,
			Quote:   pricing.Compute(p, pctx),
		})
	}

	return priced, total, nil
}

func sampleRows(columns []string, rows [][]string) []map[string]string {
	sample := make([]map[string]string, 0, sampleRowLimit)
	for _, row := range rows {
		if len(sample) == sampleRowLimit {
			break
		}
		blank := true
		for _, cell := range row {
			if cell != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}

		entry := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				entry[col] = row[i]
			} else {
				entry[col] = ""
			}
		}
		sample = append(sample, entry)
	}
	return sample
}
