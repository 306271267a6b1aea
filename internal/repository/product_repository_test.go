package repository

import (
	"context"
	"fmt"
	"testing"

	"distris-api/internal/domain"
	"distris-api/internal/spreadsheet"
)

func seedProducts(t *testing.T, repo ProductRepository, products []domain.Product) {
	t.Helper()
	if err := repo.Append(context.Background(), products); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _, _ = testDB.Exec("DELETE FROM products") })
}

func TestProductRepository_AppendIsAdditive(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	vat := 10.5
	first := []domain.Product{
		{ID: "acme-A-1-0", SKU: "A-1", Name: "Teclado", Price: 10, Stock: 5, SupplierID: "acme", VAT: &vat},
		{ID: "acme-A-2-1", SKU: "A-2", Name: "Mouse", Price: 8, Stock: 3, SupplierID: "acme"},
	}
	seedProducts(t, repo, first)

	// A re-import of the same file carries the same deterministic catalog
	// IDs; the batch still lands beside the earlier rows.
	second := []domain.Product{
		{ID: "acme-A-1-0", SKU: "A-1", Name: "Teclado", Price: 11, Stock: 4, SupplierID: "acme"},
	}
	if err := repo.Append(ctx, second); err != nil {
		t.Fatal(err)
	}

	_, total, err := repo.List(ctx, "acme", 1, 50, "name", SortOrderAsc)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	// FindByID resolves a repeated catalog ID to the latest appended row.
	latest, err := repo.FindByID(ctx, "acme-A-1-0")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Price != 11 || latest.Stock != 4 {
		t.Errorf("latest row not returned: %+v", latest)
	}

	untouched, err := repo.FindByID(ctx, "acme-A-2-1")
	if err != nil {
		t.Fatal(err)
	}
	if untouched.VAT != nil {
		t.Errorf("vat = %v", untouched.VAT)
	}

	if err := repo.Append(ctx, nil); err != nil {
		t.Errorf("empty batch should be a no-op: %v", err)
	}
}

func TestProductRepository_ReimportSameSpreadsheet(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	mapping := domain.ColumnMapping{
		domain.FieldSKU:   "SKU",
		domain.FieldName:  "Descripcion",
		domain.FieldPrice: "Precio",
	}
	labels := []string{"SKU", "Descripcion", "Precio"}
	rows := [][]string{
		{"A-1", "Teclado", "10"},
		{"A-2", "Mouse", "8"},
	}

	runImport := func() []domain.Product {
		t.Helper()
		res, err := spreadsheet.Import("acme", mapping, labels, rows)
		if err != nil {
			t.Fatal(err)
		}
		return res.Products
	}

	seedProducts(t, repo, runImport())

	// Same file, second upload: identical catalog IDs must not collide.
	if err := repo.Append(ctx, runImport()); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}

	_, total, err := repo.List(ctx, "acme", 1, 50, "name", SortOrderAsc)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
}

func TestProductRepository_List(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	var batch []domain.Product
	for i := 0; i < 5; i++ {
		batch = append(batch, domain.Product{
			ID:         fmt.Sprintf("acme-L-%d", i),
			SKU:        fmt.Sprintf("L-%d", i),
			Name:       fmt.Sprintf("Articulo %d", i),
			Price:      float64(100 - i),
			Stock:      i,
			SupplierID: "acme",
		})
	}
	batch = append(batch, domain.Product{
		ID: "otro-X-0", SKU: "X-0", Name: "Ajeno", Price: 1, Stock: 1, SupplierID: "otro",
	})
	seedProducts(t, repo, batch)

	t.Run("filters by supplier", func(t *testing.T) {
		products, total, err := repo.List(ctx, "acme", 1, 50, "name", SortOrderAsc)
		if err != nil {
			t.Fatal(err)
		}
		if total != 5 || len(products) != 5 {
			t.Fatalf("total=%d len=%d", total, len(products))
		}
		for _, p := range products {
			if p.SupplierID != "acme" {
				t.Errorf("leaked %s", p.ID)
			}
		}
	})

	t.Run("sorts by price descending", func(t *testing.T) {
		products, _, err := repo.List(ctx, "acme", 1, 50, "price", SortOrderDesc)
		if err != nil {
			t.Fatal(err)
		}
		for i := 1; i < len(products); i++ {
			if products[i].Price > products[i-1].Price {
				t.Fatalf("not sorted at %d", i)
			}
		}
	})

	t.Run("paginates", func(t *testing.T) {
		pageOne, total, err := repo.List(ctx, "acme", 1, 2, "name", SortOrderAsc)
		if err != nil {
			t.Fatal(err)
		}
		if total != 5 || len(pageOne) != 2 {
			t.Fatalf("total=%d len=%d", total, len(pageOne))
		}
		pageThree, _, err := repo.List(ctx, "acme", 3, 2, "name", SortOrderAsc)
		if err != nil {
			t.Fatal(err)
		}
		if len(pageThree) != 1 {
			t.Fatalf("last page len=%d", len(pageThree))
		}
	})

	t.Run("unknown sort field falls back to name", func(t *testing.T) {
		if _, _, err := repo.List(ctx, "acme", 1, 50, "price; DROP TABLE products", SortOrderAsc); err != nil {
			t.Fatal(err)
		}
	})
}

func TestProductRepository_Search(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	seedProducts(t, repo, []domain.Product{
		{ID: "s-1", SKU: "S-1", Name: "Teclado mecanico", Price: 10, Stock: 1, SupplierID: "acme"},
		{ID: "s-2", SKU: "S-2", Name: "Mouse", Description: "mouse con teclado numerico", Price: 5, Stock: 1, SupplierID: "acme"},
		{ID: "s-3", SKU: "S-3", Name: "Monitor", Price: 100, Stock: 1, SupplierID: "acme"},
	})

	t.Run("matches name and description case-insensitively", func(t *testing.T) {
		products, total, err := repo.Search(ctx, "TECLADO", 1, 50)
		if err != nil {
			t.Fatal(err)
		}
		if total != 2 || len(products) != 2 {
			t.Fatalf("total=%d len=%d", total, len(products))
		}
	})

	t.Run("no matches", func(t *testing.T) {
		products, total, err := repo.Search(ctx, "inexistente", 1, 50)
		if err != nil {
			t.Fatal(err)
		}
		if total != 0 || len(products) != 0 {
			t.Fatalf("total=%d len=%d", total, len(products))
		}
	})
}

func TestProductRepository_FindByID(t *testing.T) {
	repo := NewProductRepository(testDB)

	seedProducts(t, repo, []domain.Product{
		{ID: "f-1", SKU: "F-1", Name: "Parlante", Price: 20, Stock: 2, SupplierID: "acme"},
	})

	if _, err := repo.FindByID(context.Background(), "no-existe"); err != ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	found, err := repo.FindByID(context.Background(), "f-1")
	if err != nil {
		t.Fatal(err)
	}
	if found.Name != "Parlante" || found.VAT != nil {
		t.Errorf("found = %+v", found)
	}
}
