package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"distris-api/internal/domain"
	"distris-api/internal/pricing"
	"distris-api/internal/repository"
	"distris-api/internal/spreadsheet"
	"distris-api/internal/supplier"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockProductRepository struct {
	products []domain.Product
}

func (m *mockProductRepository) Append(ctx context.Context, products []domain.Product) error {
	m.products = append(m.products, products...)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockProductRepository) List(ctx context.Context, supplierID string, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for i := range m.products {
		if supplierID != "" && m.products[i].SupplierID != supplierID {
			continue
		}
		out = append(out, &m.products[i])
	}
	return out, len(out), nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	var out []*domain.Product
	for i := range m.products {
		if bytes.Contains([]byte(m.products[i].Name), []byte(query)) {
			out = append(out, &m.products[i])
		}
	}
	return out, len(out), nil
}

type mockSupplierRepository struct {
	suppliers map[string]*domain.Supplier
}

func newMockSupplierRepository() *mockSupplierRepository {
	return &mockSupplierRepository{suppliers: make(map[string]*domain.Supplier)}
}

func (m *mockSupplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	if _, exists := m.suppliers[s.ID]; exists {
		return repository.ErrSupplierAlreadyExists
	}
	m.suppliers[s.ID] = s
	return nil
}

func (m *mockSupplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	if _, exists := m.suppliers[s.ID]; !exists {
		return repository.ErrSupplierNotFound
	}
	m.suppliers[s.ID] = s
	return nil
}

func (m *mockSupplierRepository) Delete(ctx context.Context, id string) error {
	if _, exists := m.suppliers[id]; !exists {
		return repository.ErrSupplierNotFound
	}
	delete(m.suppliers, id)
	return nil
}

func (m *mockSupplierRepository) FindByID(ctx context.Context, id string) (*domain.Supplier, error) {
	s, exists := m.suppliers[id]
	if !exists {
		return nil, repository.ErrSupplierNotFound
	}
	return s, nil
}

func (m *mockSupplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	out := make([]*domain.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (m *mockSupplierRepository) SaveMapping(ctx context.Context, id string, mapping domain.ColumnMapping) error {
	s, exists := m.suppliers[id]
	if !exists {
		return repository.ErrSupplierNotFound
	}
	s.Mapping = mapping.Clone()
	return nil
}

type stubFetcher struct {
	payloads map[string][]supplier.Item
	errs     map[string]error
}

func (f *stubFetcher) FetchItems(ctx context.Context, url string) ([]supplier.Item, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return f.payloads[url], nil
}

func newTestCatalogService(supplierRepo *mockSupplierRepository, productRepo *mockProductRepository, fetcher supplier.Fetcher, endpoints map[string]string) CatalogService {
	rates := supplier.NewRateHolder(1220)
	syncer := supplier.NewSyncer(fetcher, endpoints, rates, zap.NewNop())
	return NewCatalogService(productRepo, supplierRepo, syncer, rates, 21)
}

func addTestSupplier(repo *mockSupplierRepository, id string, mapping domain.ColumnMapping) {
	repo.suppliers[id] = &domain.Supplier{
		ID:        id,
		Name:      id,
		Active:    true,
		Mapping:   mapping,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func buildTestWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPreviewSpreadsheet(t *testing.T) {
	ctx := context.Background()

	t.Run("detects header and proposes a mapping", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", nil)
		svc := newTestCatalogService(supplierRepo, &mockProductRepository{}, &stubFetcher{}, nil)

		file := buildTestWorkbook(t, [][]any{
			{"Lista de precios", "", "", ""},
			{"SKU", "Descripcion", "Precio", "Stock"},
			{"A-1", "Teclado", 10, 5},
			{"A-2", "Mouse", 8, 3},
		})

		preview, err := svc.PreviewSpreadsheet(ctx, "acme", file)
		if err != nil {
			t.Fatal(err)
		}

		if preview.HeaderRow != 1 {
			t.Errorf("header row = %d", preview.HeaderRow)
		}
		if preview.Proposal[domain.FieldSKU] != "SKU" || preview.Proposal[domain.FieldPrice] != "Precio" {
			t.Errorf("proposal = %v", preview.Proposal)
		}
		if len(preview.Sample) != 2 {
			t.Errorf("sample rows = %d", len(preview.Sample))
		}
		if preview.Sample[0]["Descripcion"] != "Teclado" {
			t.Errorf("sample[0] = %v", preview.Sample[0])
		}
	})

	t.Run("stored mapping survives matching columns and drops stale ones", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", domain.ColumnMapping{
			domain.FieldPrice: "Precio mayorista",
			domain.FieldSKU:   "SKU",
		})
		svc := newTestCatalogService(supplierRepo, &mockProductRepository{}, &stubFetcher{}, nil)

		file := buildTestWorkbook(t, [][]any{
			{"SKU", "Descripcion", "Precio", "Stock"},
			{"A-1", "Teclado", 10, 5},
		})

		preview, err := svc.PreviewSpreadsheet(ctx, "acme", file)
		if err != nil {
			t.Fatal(err)
		}

		// The stale "Precio mayorista" reference must not survive; auto-map
		// fills price back in from this file's own headers.
		if preview.Proposal[domain.FieldPrice] != "Precio" {
			t.Errorf("price = %q", preview.Proposal[domain.FieldPrice])
		}
		if preview.Proposal[domain.FieldSKU] != "SKU" {
			t.Errorf("sku = %q", preview.Proposal[domain.FieldSKU])
		}
	})

	t.Run("unknown supplier", func(t *testing.T) {
		svc := newTestCatalogService(newMockSupplierRepository(), &mockProductRepository{}, &stubFetcher{}, nil)
		_, err := svc.PreviewSpreadsheet(ctx, "nadie", nil)
		if err != repository.ErrSupplierNotFound {
			t.Fatalf("expected ErrSupplierNotFound, got %v", err)
		}
	})
}

func TestConfirmMapping(t *testing.T) {
	ctx := context.Background()
	columns := []string{"SKU", "Descripcion", "Precio", "Stock"}
	valid := domain.ColumnMapping{
		domain.FieldSKU:   "SKU",
		domain.FieldName:  "Descripcion",
		domain.FieldPrice: "Precio",
		domain.FieldStock: "Stock",
	}

	t.Run("persists a valid mapping", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", nil)
		svc := newTestCatalogService(supplierRepo, &mockProductRepository{}, &stubFetcher{}, nil)

		if err := svc.ConfirmMapping(ctx, "acme", valid, columns); err != nil {
			t.Fatal(err)
		}
		if supplierRepo.suppliers["acme"].Mapping[domain.FieldSKU] != "SKU" {
			t.Error("mapping was not persisted")
		}
	})

	t.Run("incomplete mapping blocks the save", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", nil)
		svc := newTestCatalogService(supplierRepo, &mockProductRepository{}, &stubFetcher{}, nil)

		partial := valid.Clone()
		delete(partial, domain.FieldStock)

		var missing *spreadsheet.MissingRequiredMappingError
		err := svc.ConfirmMapping(ctx, "acme", partial, columns)
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingRequiredMappingError, got %v", err)
		}
		if len(supplierRepo.suppliers["acme"].Mapping) != 0 {
			t.Error("rejected mapping must not be persisted")
		}
	})
}

func TestImportFromSpreadsheet(t *testing.T) {
	ctx := context.Background()
	mapping := domain.ColumnMapping{
		domain.FieldSKU:   "SKU",
		domain.FieldName:  "Descripcion",
		domain.FieldPrice: "Precio",
		domain.FieldStock: "Stock",
	}

	t.Run("imports and appends", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", mapping)
		productRepo := &mockProductRepository{}
		svc := newTestCatalogService(supplierRepo, productRepo, &stubFetcher{}, nil)

		file := buildTestWorkbook(t, [][]any{
			{"SKU", "Descripcion", "Precio", "Stock"},
			{"A-1", "Teclado", 10, 5},
			{"A-2", "Mouse", 8, 3},
		})

		result, err := svc.ImportFromSpreadsheet(ctx, "acme", file)
		if err != nil {
			t.Fatal(err)
		}
		if result.Imported != 2 {
			t.Errorf("imported = %d", result.Imported)
		}
		if len(productRepo.products) != 2 {
			t.Errorf("stored = %d", len(productRepo.products))
		}
	})

	t.Run("re-import appends instead of replacing", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", mapping)
		productRepo := &mockProductRepository{}
		svc := newTestCatalogService(supplierRepo, productRepo, &stubFetcher{}, nil)

		file := buildTestWorkbook(t, [][]any{
			{"SKU", "Descripcion", "Precio", "Stock"},
			{"A-1", "Teclado", 10, 5},
		})

		if _, err := svc.ImportFromSpreadsheet(ctx, "acme", file); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.ImportFromSpreadsheet(ctx, "acme", file); err != nil {
			t.Fatal(err)
		}
		if len(productRepo.products) != 2 {
			t.Errorf("expected both imports retained, got %d", len(productRepo.products))
		}
	})

	t.Run("refuses without a confirmed mapping", func(t *testing.T) {
		supplierRepo := newMockSupplierRepository()
		addTestSupplier(supplierRepo, "acme", nil)
		svc := newTestCatalogService(supplierRepo, &mockProductRepository{}, &stubFetcher{}, nil)

		_, err := svc.ImportFromSpreadsheet(ctx, "acme", nil)
		if err != spreadsheet.ErrNoMappingConfigured {
			t.Fatalf("expected ErrNoMappingConfigured, got %v", err)
		}
	})
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	endpoints := map[string]string{
		domain.SupplierNewBytes: "http://newbytes.test",
		domain.SupplierElit:     "http://elit.test",
	}

	t.Run("appends successful suppliers and keeps failures in the results", func(t *testing.T) {
		fetcher := &stubFetcher{
			payloads: map[string][]supplier.Item{
				"http://newbytes.test": {
					{"sku": "NB-1", "nombre": "Notebook", "precio": 500.0, "stock": 1.0},
				},
			},
			errs: map[string]error{
				"http://elit.test": errors.New("timeout"),
			},
		}

		productRepo := &mockProductRepository{}
		svc := newTestCatalogService(newMockSupplierRepository(), productRepo, fetcher, endpoints)

		results, err := svc.SyncAll(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) != 2 {
			t.Fatalf("results = %d", len(results))
		}
		if len(productRepo.products) != 1 {
			t.Errorf("stored = %d", len(productRepo.products))
		}
	})

	t.Run("sync one unknown supplier", func(t *testing.T) {
		svc := newTestCatalogService(newMockSupplierRepository(), &mockProductRepository{}, &stubFetcher{}, endpoints)

		_, err := svc.SyncOne(ctx, "desconocido")
		if err != supplier.ErrUnknownSupplier {
			t.Fatalf("expected ErrUnknownSupplier, got %v", err)
		}
	})
}

func TestListPriced(t *testing.T) {
	ctx := context.Background()

	productRepo := &mockProductRepository{products: []domain.Product{
		{ID: "p1", SKU: "A-1", Name: "Teclado", Price: 100, Stock: 1, SupplierID: "otro"},
		{ID: "p2", SKU: "A-2", Name: "Mouse", Price: 50, Stock: 2, SupplierID: domain.SupplierNewBytes, Category: "Periféricos", Brand: "Logi"},
	}}
	svc := newTestCatalogService(newMockSupplierRepository(), productRepo, &stubFetcher{}, nil)

	t.Run("prices every entry with context defaults", func(t *testing.T) {
		priced, total, err := svc.ListPriced(ctx, "", "", 1, 50, pricing.Context{})
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 {
			t.Errorf("total = %d", total)
		}
		if priced[0].Quote.Display != "121.00" {
			t.Errorf("quote = %q", priced[0].Quote.Display)
		}
		if priced[1].Quote.Display != "62.00" {
			t.Errorf("quote = %q", priced[1].Quote.Display)
		}
	})

	t.Run("blank category and brand become placeholders", func(t *testing.T) {
		priced, _, err := svc.ListPriced(ctx, "", "", 1, 50, pricing.Context{})
		if err != nil {
			t.Fatal(err)
		}
		if priced[0].Category != domain.GenericPlaceholder || priced[0].Brand != domain.GenericPlaceholder {
			t.Errorf("placeholders missing: %+v", priced[0].Product)
		}
		if priced[1].Category != "Periféricos" {
			t.Errorf("real category replaced: %q", priced[1].Category)
		}
		// The canonical record itself stays untouched.
		if productRepo.products[0].Category != "" {
			t.Error("placeholder leaked into the stored record")
		}
	})

	t.Run("explicit zero vat is honored, not replaced with the default", func(t *testing.T) {
		priced, _, err := svc.ListPriced(ctx, "", "", 1, 50, pricing.Context{VATSet: true})
		if err != nil {
			t.Fatal(err)
		}
		if priced[0].Quote.Display != "100.00" {
			t.Errorf("quote = %q, want 100.00", priced[0].Quote.Display)
		}
	})

	t.Run("supplier filter", func(t *testing.T) {
		priced, total, err := svc.ListPriced(ctx, domain.SupplierNewBytes, "", 1, 50, pricing.Context{})
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 || priced[0].SKU != "A-2" {
			t.Errorf("filtered total=%d", total)
		}
	})

	t.Run("search bypasses the supplier filter", func(t *testing.T) {
		priced, _, err := svc.ListPriced(ctx, "", "Teclado", 1, 50, pricing.Context{})
		if err != nil {
			t.Fatal(err)
		}
		if len(priced) != 1 || priced[0].SKU != "A-1" {
			t.Errorf("search results = %d", len(priced))
		}
	})
}
